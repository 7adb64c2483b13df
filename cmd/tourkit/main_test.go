package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const ratingsCSV = `UserId,AttractionId,Rating,AttractionTypeId,CityId,CountryId
1,10,5,1,100,7
1,11,3,2,100,7
2,10,4,1,100,7
2,11,5,2,100,7
2,12,2,1,200,7
3,11,1,2,100,7
3,12,5,1,200,7
`

func writeData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ratings.csv")
	if err := os.WriteFile(path, []byte(ratingsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("TOURKIT_DATA", "")
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunRecommend(t *testing.T) {
	code, out, stderr := runCLI(t, "-data", writeData(t), "-user", "1", "-n", "3", "-log-level", "error")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "RANK") {
		t.Fatalf("output:\n%s", out)
	}
	fields := strings.Fields(lines[1])
	if fields[0] != "1" || fields[1] != "12" || fields[4] != "200" {
		t.Errorf("row = %v", fields)
	}
}

func TestRunEmpty(t *testing.T) {
	code, out, _ := runCLI(t, "-data", writeData(t), "-user", "99", "-log-level", "error")
	if code != 0 || strings.TrimSpace(out) != "no recommendations available" {
		t.Errorf("exit %d output %q", code, out)
	}
}

func TestRunUsers(t *testing.T) {
	code, out, _ := runCLI(t, "-data", writeData(t), "-users", "-log-level", "error")
	if code != 0 || out != "1\n2\n3\n" {
		t.Errorf("exit %d output %q", code, out)
	}
}

func TestRunJSON(t *testing.T) {
	code, out, _ := runCLI(t, "-data", writeData(t), "-user", "1", "-strategy", "content", "-json", "-log-level", "error")
	if code != 0 || !strings.Contains(out, `"attraction_id": "12"`) || !strings.Contains(out, `"strategy": "content"`) {
		t.Errorf("exit %d output %s", code, out)
	}
}

func TestRunErrors(t *testing.T) {
	data := writeData(t)
	tests := []struct {
		args []string
		code int
	}{
		{[]string{"-data", data}, 2},
		{[]string{"-bogus"}, 2},
		{[]string{"-data", data, "-user", "1", "-strategy", "popular"}, 1},
		{[]string{"-data", data, "-user", "1", "-n", "0"}, 1},
		{[]string{"-data", filepath.Join(t.TempDir(), "none.csv"), "-user", "1"}, 1},
		{[]string{"-user", "1"}, 1},
	}
	for _, tt := range tests {
		code, _, _ := runCLI(t, append(tt.args, "-log-level", "error")...)
		if code != tt.code {
			t.Errorf("%v: exit %d, want %d", tt.args, code, tt.code)
		}
	}
}
