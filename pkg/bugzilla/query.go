package bugzilla

import (
	"fmt"
	"strings"
)

// Search roles that expand into the server's numbered email filter keys,
// in emission order.
var emailRoles = []string{"cc", "assigned_to", "reporter", "qa_contact"}

// Boolean chart filters, in emission order: caller keyword to server
// field. The empty field marks the raw passthrough kind, whose tokens
// carry their own field-type[-value] spec.
var booleanFilters = []struct {
	Keyword string
	Field   string
}{
	{"fixed_in", "cf_fixed_in"},
	{"blocked", "blocked"},
	{"dependson", "dependson"},
	{"flag", "flagtypes.name"},
	{"qa_whiteboard", "cf_qa_whiteboard"},
	{"devel_whiteboard", "cf_devel_whiteboard"},
	{"alias", "alias"},
	{"boolean_query", ""},
}

// BuildQuery assembles an advanced-search query from simple keyword
// filters. Email roles (cc, assigned_to, reporter, qa_contact) become
// numbered email filter keys; the boolean filter keywords become chart
// field/value/type triples. Emitting either kind switches the query to
// the advanced format, an extension of this server dialect.
//
// kwargs is never modified: the builder consumes keys from its own copy
// and passes whatever remains through to the server unchanged, after a
// final pre-translation of the combined query. The emailtype and
// booleantype keys override the default "substring" match and are
// consumed by the builder rather than forwarded. A key present with a
// nil value is consumed without emitting anything.
func (c *Client) BuildQuery(kwargs map[string]interface{}) (map[string]interface{}, error) {
	remaining := cloneQuery(kwargs)
	query := map[string]interface{}{}

	emailType := stringOrDefault(remaining["emailtype"], "substring")
	booleanType := stringOrDefault(remaining["booleantype"], "substring")
	delete(remaining, "emailtype")
	delete(remaining, "booleantype")

	emailCount := 1
	for _, role := range emailRoles {
		emailCount = addEmailFilter(query, remaining, role, emailType, emailCount)
	}

	chartID := 0
	for _, filter := range booleanFilters {
		var err error
		chartID, err = addBooleanFilter(query, remaining, filter.Keyword, filter.Field, booleanType, chartID)
		if err != nil {
			return nil, err
		}
	}

	// unconsumed keywords go to the server untouched
	for key, value := range remaining {
		if value == nil {
			continue
		}
		query[key] = value
	}

	preTranslate(query)
	return query, nil
}

// addEmailFilter consumes one email role from remaining and emits its
// numbered filter keys. The counter only advances on emission.
func addEmailFilter(query, remaining map[string]interface{}, role, emailType string, count int) int {
	value, present := remaining[role]
	if !present {
		return count
	}
	delete(remaining, role)
	if value == nil {
		return count
	}

	query["query_format"] = "advanced"
	query[fmt.Sprintf("email%d", count)] = value
	query[fmt.Sprintf("email%s%d", role, count)] = true
	query[fmt.Sprintf("emailtype%d", count)] = emailType
	return count + 1
}

// addBooleanFilter consumes one boolean filter keyword from remaining
// and emits chart triples for each of its expressions. The chart id
// advances once per expression.
func addBooleanFilter(query, remaining map[string]interface{}, keyword, field, booleanType string, chartID int) (int, error) {
	value, present := remaining[keyword]
	if !present {
		return chartID, nil
	}
	delete(remaining, keyword)
	if value == nil {
		return chartID, nil
	}

	query["query_format"] = "advanced"
	for _, expr := range toExprList(value) {
		andCount, orCount := 0, 0
		chartKey := func(prefix string) string {
			return fmt.Sprintf("%s%d-%d-%d", prefix, chartID, andCount, orCount)
		}

		for _, token := range boolSmartSplit(expr) {
			switch token {
			case "&":
				andCount++
			case "|":
				orCount++
			case "!":
				query[fmt.Sprintf("negate%d", chartID)] = 1
			default:
				fieldName, fieldValue, fieldType := field, token, booleanType
				if field == "" {
					// raw passthrough: the token spells field-type[-value]
					if !strings.Contains(token, "-") {
						return 0, &QueryError{Expression: expr}
					}
					parts := strings.SplitN(token, "-", 3)
					fieldName, fieldType = parts[0], parts[1]
					fieldValue = ""
					if len(parts) == 3 {
						fieldValue = parts[2]
					}
				}
				query[chartKey("field")] = fieldName
				if fieldValue != "" {
					query[chartKey("value")] = fieldValue
				}
				query[chartKey("type")] = fieldType
			}
		}
		chartID++
	}
	return chartID, nil
}

// boolSmartSplit tokenizes a boolean expression. The |, & and !
// operators become standalone tokens whether or not they are surrounded
// by spaces; spaces embedded in ordinary search terms survive.
func boolSmartSplit(expr string) []string {
	var tokens []string
	var current string

	flush := func() {
		if current != "" {
			tokens = append(tokens, current)
			current = ""
		}
	}

	for _, word := range strings.Split(expr, " ") {
		firstPiece := true
		for _, piece := range splitOperators(word) {
			if isBoolOperator(piece) {
				flush()
				tokens = append(tokens, piece)
				firstPiece = false
				continue
			}
			if current != "" && firstPiece {
				current += " "
			}
			current += piece
			firstPiece = false
		}
	}
	flush()
	return tokens
}

// splitOperators breaks a single word apart around operator characters,
// keeping them as their own pieces: "a|b" becomes ["a", "|", "b"].
func splitOperators(word string) []string {
	var pieces []string
	var buf strings.Builder
	for _, r := range word {
		switch r {
		case '|', '&', '!':
			if buf.Len() > 0 {
				pieces = append(pieces, buf.String())
				buf.Reset()
			}
			pieces = append(pieces, string(r))
		default:
			buf.WriteRune(r)
		}
	}
	if buf.Len() > 0 {
		pieces = append(pieces, buf.String())
	}
	return pieces
}

func isBoolOperator(token string) bool {
	return token == "|" || token == "&" || token == "!"
}

// toExprList coerces a boolean filter value into expression strings. A
// plain string is one expression; commas inside it are search text, not
// separators.
func toExprList(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func stringOrDefault(value interface{}, fallback string) string {
	if s, ok := value.(string); ok && s != "" {
		return s
	}
	return fallback
}

// cloneQuery makes a shallow copy; builders own the copy and never touch
// the caller's map.
func cloneQuery(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
