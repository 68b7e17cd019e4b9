package db

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/jobconnect/internal/types"
)

// Page sizes for list endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// ClampLimit applies the default page size to non-positive limits and caps the rest.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// whereBuilder accumulates AND-ed conditions with $n placeholders.
type whereBuilder struct {
	conditions []string
	args       []any
}

// add appends a condition; each %s in cond is replaced by the next placeholder for the given args.
func (w *whereBuilder) add(cond string, args ...any) {
	placeholders := make([]any, len(args))
	for i, a := range args {
		w.args = append(w.args, a)
		placeholders[i] = fmt.Sprintf("$%d", len(w.args))
	}
	w.conditions = append(w.conditions, fmt.Sprintf(cond, placeholders...))
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// page appends ORDER BY, LIMIT and OFFSET.
func (w *whereBuilder) page(orderBy string, limit, offset int) string {
	w.args = append(w.args, ClampLimit(limit), clampOffset(offset))
	return fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, len(w.args)-1, len(w.args))
}

func likePattern(q string) string {
	return "%" + strings.TrimSpace(q) + "%"
}

const skillFilter = `EXISTS (SELECT 1 FROM jsonb_array_elements(%s) s WHERE LOWER(s->>'name') = LOWER(%%s))`

func buildUserSearch(f types.UserFilters) (string, []any) {
	var w whereBuilder
	if q := strings.TrimSpace(f.Query); q != "" {
		w.add("(u.name ILIKE %s OR u.headline ILIKE %s)", likePattern(q), likePattern(q))
	}
	if s := strings.TrimSpace(f.Skill); s != "" {
		w.add(fmt.Sprintf(skillFilter, "u.skills"), s)
	}
	if f.AccountType != "" {
		// "both" accounts show up under either role.
		w.add("(u.account_type = %s OR u.account_type = 'both')", string(f.AccountType))
	}
	query := "SELECT " + userColumns + " FROM users u" + w.clause()
	query += w.page("u.created_at DESC, u.id", f.Limit, f.Offset)
	return query, w.args
}

func buildJobSearch(f types.JobFilters) (string, []any) {
	var w whereBuilder
	status := f.Status
	if status == "" {
		status = types.JobOpen
	}
	w.add("j.status = %s", string(status))
	if q := strings.TrimSpace(f.Query); q != "" {
		p := likePattern(q)
		w.add("(j.title ILIKE %s OR j.company ILIKE %s OR j.description ILIKE %s)", p, p, p)
	}
	if f.JobType != "" {
		w.add("j.job_type = %s", f.JobType)
	}
	if f.WorkLocation != "" {
		w.add("j.work_location = %s", f.WorkLocation)
	}
	if s := strings.TrimSpace(f.Skill); s != "" {
		w.add(fmt.Sprintf(skillFilter, "j.skills"), s)
	}
	if c := strings.TrimSpace(f.City); c != "" {
		w.add("LOWER(j.location->>'city') = LOWER(%s)", c)
	}
	if f.EmployerID != uuid.Nil {
		w.add("j.employer_id = %s", f.EmployerID)
	}
	query := "SELECT " + jobColumns + " FROM jobs j" + w.clause()
	query += w.page("j.created_at DESC, j.id", f.Limit, f.Offset)
	return query, w.args
}

func buildPostList(f types.PostFilters) (string, []any) {
	var w whereBuilder
	if f.Category != "" {
		w.add("p.category = %s", f.Category)
	}
	if f.AuthorID != uuid.Nil {
		w.add("p.author_id = %s", f.AuthorID)
	}
	query := "SELECT " + postColumns + ", " + userColumns +
		" FROM posts p JOIN users u ON u.id = p.author_id" + w.clause()
	query += w.page("p.created_at DESC, p.id", f.Limit, f.Offset)
	return query, w.args
}
