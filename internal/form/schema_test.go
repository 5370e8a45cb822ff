package form

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginSchema(t *testing.T) {
	s := Login()

	errs := s.Validate(map[string]string{
		"email":    "not-an-email",
		"password": "short",
	})
	require.Contains(t, errs["email"], "valid email")
	require.Contains(t, errs["password"], "at least 8")

	errs = s.Validate(map[string]string{
		"email":    "a@example.com",
		"password": "password123",
	})
	require.Empty(t, errs)
}

func TestRegisterSchemaRequiresName(t *testing.T) {
	s := Register()

	errs := s.Validate(map[string]string{
		"name":     "   ",
		"email":    "a@example.com",
		"password": "password123",
	})
	require.Contains(t, errs["name"], "required")
}

func TestTaskSchema(t *testing.T) {
	s := Task()

	valid := map[string]string{
		"title":    "Ship the release",
		"dueDate":  "2026-03-14",
		"dueTime":  "09:30",
		"priority": "HIGH",
		"status":   "TODO",
	}
	require.Empty(t, s.Validate(valid))

	t.Run("title required", func(t *testing.T) {
		v := clone(valid)
		v["title"] = ""
		require.Contains(t, s.Validate(v)["title"], "required")
	})

	t.Run("title too long", func(t *testing.T) {
		v := clone(valid)
		long := make([]rune, 101)
		for i := range long {
			long[i] = 'x'
		}
		v["title"] = string(long)
		require.Contains(t, s.Validate(v)["title"], "at most 100")
	})

	t.Run("description optional", func(t *testing.T) {
		v := clone(valid)
		v["description"] = ""
		require.Empty(t, s.Validate(v))
	})

	t.Run("bad date", func(t *testing.T) {
		v := clone(valid)
		v["dueDate"] = "14/03/2026"
		require.Contains(t, s.Validate(v)["dueDate"], "2006-01-02")
	})

	t.Run("bad time", func(t *testing.T) {
		v := clone(valid)
		v["dueTime"] = "9.30pm"
		require.Contains(t, s.Validate(v)["dueTime"], "15:04")
	})

	t.Run("priority outside enum", func(t *testing.T) {
		v := clone(valid)
		v["priority"] = "CRITICAL"
		require.Contains(t, s.Validate(v)["priority"], "must be one of")
	})
}

func TestRuleAdaptsFieldForInlineValidation(t *testing.T) {
	rule := Login().Rule("email")
	require.Error(t, rule("nope"))
	require.NoError(t, rule("a@example.com"))

	// Unknown fields validate as always-ok rather than panicking.
	require.NoError(t, Login().Rule("missing")("anything"))
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
