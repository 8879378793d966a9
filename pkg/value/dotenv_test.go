package value

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// resetDotEnv lets a test observe the first-lookup preload again.
func resetDotEnv(t *testing.T) {
	t.Helper()
	dotenvOnce = &sync.Once{}
	t.Cleanup(func() { dotenvOnce = &sync.Once{} })
}

func TestEvaluateValue_PreloadsDotEnv(t *testing.T) {
	const key = "RAZAN_VALUE_DOTENV_ONLY"
	_ = os.Unsetenv(key)
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=yes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	resetDotEnv(t)

	if got := EvaluateValue(`env("` + key + `")`); !got.Equal(NewString("yes")) {
		t.Errorf("env(%s) = %q, want yes", key, got)
	}
}

func TestEvaluateValue_DotEnvKeepsProcessValue(t *testing.T) {
	const key = "RAZAN_VALUE_DOTENV_SET"
	t.Setenv(key, "process")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	resetDotEnv(t)

	if got := EvaluateValue(`env("` + key + `")`); !got.Equal(NewString("process")) {
		t.Errorf("env(%s) = %q, want process", key, got)
	}
}

func TestEvaluate_CustomLookupSkipsDotEnv(t *testing.T) {
	const key = "RAZAN_VALUE_DOTENV_CUSTOM"
	_ = os.Unsetenv(key)
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=yes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	resetDotEnv(t)

	e := NewEvaluator(WithEnvLookup(func(string) (string, bool) { return "", false }))
	e.Evaluate(`env("` + key + `")`)
	if _, ok := os.LookupEnv(key); ok {
		t.Errorf("%s was loaded from .env by a custom lookup", key)
	}
}
