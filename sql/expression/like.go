package expression

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"github.com/src-d/go-mldb/sql"
)

// Like performs pattern matching against two strings.
type Like struct {
	BinaryExpression

	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewLike creates a new LIKE expression.
func NewLike(left, right sql.Expression) sql.Expression {
	return &Like{BinaryExpression: BinaryExpression{left, right}}
}

// Type implements the sql.Expression interface.
func (l *Like) Type() sql.Type { return sql.Boolean }

// Eval implements the sql.Expression interface.
func (l *Like) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	left, right, err := evalBinary(ctx, &l.BinaryExpression, row)
	if err != nil {
		return nil, err
	}

	if left == nil || right == nil {
		return nil, nil
	}

	pattern, err := cast.ToStringE(right)
	if err != nil {
		return nil, sql.ErrInvalidType.Wrap(err, fmt.Sprintf("%v", right))
	}

	s, err := cast.ToStringE(left)
	if err != nil {
		return false, nil
	}

	re, err := l.regexp(pattern)
	if err != nil {
		return nil, err
	}

	return re.MatchString(s), nil
}

func (l *Like) regexp(pattern string) (*regexp.Regexp, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if re, ok := l.cache[pattern]; ok {
		return re, nil
	}

	re, err := regexp.Compile(patternToGoRegex(pattern))
	if err != nil {
		return nil, err
	}

	if l.cache == nil {
		l.cache = make(map[string]*regexp.Regexp)
	}
	l.cache[pattern] = re
	return re, nil
}

func (l *Like) String() string {
	return fmt.Sprintf("%s LIKE %s", l.Left, l.Right)
}

// WithChildren implements the Expression interface.
func (l *Like) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 2)
	}
	return NewLike(children[0], children[1]), nil
}

// patternToGoRegex converts a LIKE pattern to an anchored Go regexp. % matches
// any sequence, _ any single character and \ escapes the next character.
func patternToGoRegex(pattern string) string {
	var buf strings.Builder
	buf.WriteString("(?s)^")

	var escaped bool
	for _, r := range pattern {
		switch {
		case escaped:
			buf.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			buf.WriteString(".*")
		case r == '_':
			buf.WriteRune('.')
		default:
			buf.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	if escaped {
		buf.WriteString(`\\`)
	}

	buf.WriteRune('$')
	return buf.String()
}
