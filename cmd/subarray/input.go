package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseValues turns CLI arguments into a sequence. Each argument may hold
// several comma or whitespace separated numbers.
func parseValues(args []string) ([]float64, error) {
	values := make([]float64, 0, len(args))
	for _, arg := range args {
		fields := strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", field)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("invalid number %q: must be finite", field)
			}
			values = append(values, v)
		}
	}
	return values, nil
}
