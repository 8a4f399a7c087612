package postgresql

import (
	"fmt"
	"strings"
	"time"
)

// setBuilder collects column assignments for a partial UPDATE.
type setBuilder struct {
	clauses []string
	args    []interface{}
}

func (s *setBuilder) add(column string, value interface{}) {
	s.args = append(s.args, value)
	s.clauses = append(s.clauses, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setBuilder) empty() bool {
	return len(s.clauses) == 0
}

// build returns the SET list and the placeholder index of the next argument.
func (s *setBuilder) build() (string, int) {
	return strings.Join(s.clauses, ", "), len(s.args) + 1
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user input into an ILIKE pattern matching it anywhere.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(search)) + "%"
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
