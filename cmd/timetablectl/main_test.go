package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/service"
)

const sampleProject = `{
  "name": "Term 1",
  "days": ["Mon", "Tue", "Wed", "Thu", "Fri"],
  "teachers": [{"id": "T1"}, {"id": "T2"}],
  "levels": [{
    "index": 0,
    "classes": [
      {"id": "7A", "periodsPerDay": [5, 5, 5, 5, 5], "breakPeriods": [2, 2, 2, 2, 2]},
      {"id": "7B", "periodsPerDay": [5, 5, 5, 5, 5], "breakPeriods": [2, 2, 2, 2, 2]}
    ],
    "subjects": [
      {"name": "Math", "timings": [
        {"classId": "7A", "teacherId": "T1", "dailyQuota": 2, "weeklyQuota": 6},
        {"classId": "7B", "teacherId": "T1", "dailyQuota": 2, "weeklyQuota": 6}
      ]},
      {"name": "Biology", "timings": [
        {"classId": "7A", "teacherId": "T2", "dailyQuota": 1, "weeklyQuota": 4},
        {"classId": "7B", "teacherId": "T2", "dailyQuota": 1, "weeklyQuota": 4}
      ]}
    ]
  }]
}`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleProject), 0o644))
	return path
}

func TestGenerateWritesProject(t *testing.T) {
	input := writeSample(t)
	out := filepath.Join(t.TempDir(), "generated.json")

	_, stderr, err := runCLI(t, "generate", "--project", input, "--out", out, "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, stderr, "CLASS")
	assert.Contains(t, stderr, "teacher clashes:")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var project dto.Project
	require.NoError(t, json.Unmarshal(raw, &project))
	for _, class := range project.Levels[0].Classes {
		assert.True(t, class.Generated, class.ID)
		widths := 0
		for _, p := range class.Placements {
			widths += p.Width
		}
		assert.Equal(t, 25, widths)
	}
}

func TestGenerateSingleClassToStdout(t *testing.T) {
	input := writeSample(t)

	stdout, _, err := runCLI(t, "generate", "-p", input, "--class", "7B", "--seed", "9")
	require.NoError(t, err)
	var project dto.Project
	require.NoError(t, json.Unmarshal([]byte(stdout), &project))
	classes := project.Levels[0].Classes
	assert.False(t, classes[0].Generated)
	assert.True(t, classes[1].Generated)

	_, _, err = runCLI(t, "generate", "-p", input, "--class", "9Z")
	require.Error(t, err)
}

func TestExportWritesFile(t *testing.T) {
	input := writeSample(t)
	generated := filepath.Join(t.TempDir(), "generated.json")
	_, _, err := runCLI(t, "generate", "-p", input, "-o", generated, "--seed", "5")
	require.NoError(t, err)

	dir := t.TempDir()
	stale := filepath.Join(dir, "timetable_7A_20200101_000000.csv")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
	past := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	stdout, _, err := runCLI(t, "export", "-p", generated, "--class", "7A", "--format", "csv", "--dir", dir, "--retain", "24h")
	require.NoError(t, err)
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	path := strings.TrimSpace(stdout)
	assert.Equal(t, dir, filepath.Dir(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "class,day,period,width,subject,teacher,locked"))
}

func TestTokenIssuesValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	stdout, _, err := runCLI(t, "token", "--user", "admin-1", "--role", "SUPERADMIN")
	require.NoError(t, err)

	claims, err := service.NewTokenService("cli-secret", time.Hour).ValidateToken(strings.TrimSpace(stdout))
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.EqualValues(t, "SUPERADMIN", claims.Role)
}
