/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// buildUpdateExpression transforms a map of attribute->value into:
//   - an update expression (e.g., "SET #f0 = :v0, #f1 = :v1")
//   - a corresponding map of expression attribute names
//   - a corresponding map of expression attribute values
//
// Attributes are sorted so the generated expression is deterministic.
func buildUpdateExpression(updates map[string]any) (string,
	map[string]string,
	map[string]types.AttributeValue,
	error) {

	if len(updates) == 0 {
		return "", nil, nil, errors.New("no updates provided")
	}

	fields := sortedKeys(updates)

	setClauses := make([]string, 0, len(fields))
	exprAttrNames := make(map[string]string)
	exprAttrValues := make(map[string]types.AttributeValue)

	for i, field := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		setClauses = append(setClauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		exprAttrNames[placeholderName] = field

		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("field %q: %w", field, err)
		}
		exprAttrValues[placeholderValue] = av
	}

	updateExpr := "SET " + strings.Join(setClauses, ", ")
	return updateExpr, exprAttrNames, exprAttrValues, nil
}

// buildFilterExpression transforms a map of attribute->value into an
// equality filter expression joined with AND, plus its name and value maps.
func buildFilterExpression(filters map[string]any) (string,
	map[string]string,
	map[string]types.AttributeValue,
	error) {

	if len(filters) == 0 {
		return "", nil, nil, errors.New("no filters provided")
	}

	fields := sortedKeys(filters)

	clauses := make([]string, 0, len(fields))
	exprAttrNames := make(map[string]string)
	exprAttrValues := make(map[string]types.AttributeValue)

	for i, field := range fields {
		placeholderName := fmt.Sprintf("#w%d", i)
		placeholderValue := fmt.Sprintf(":c%d", i)

		clauses = append(clauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		exprAttrNames[placeholderName] = field

		av, err := attributevalue.Marshal(filters[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("field %q: %w", field, err)
		}
		exprAttrValues[placeholderValue] = av
	}

	return strings.Join(clauses, " AND "), exprAttrNames, exprAttrValues, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
