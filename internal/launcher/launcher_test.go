package launcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgv(t *testing.T) {
	tests := []struct {
		platform string
		command  []string
		want     []string
	}{
		{"windows", nil, []string{"cmd", "/c", "start", "", "/f/a.docx"}},
		{"darwin", nil, []string{"open", "/f/a.docx"}},
		{"linux", nil, []string{"xdg-open", "/f/a.docx"}},
		{"windows", []string{"EXCEL.EXE", "/e", "a.xlsx"}, []string{"EXCEL.EXE", "/e", "a.xlsx"}},
		{"darwin", []string{"Microsoft Excel", "/f/a.xlsx"}, []string{"open", "-a", "Microsoft Excel", "/f/a.xlsx"}},
		{"linux", []string{"libreoffice", "/f/a.xlsx"}, []string{"libreoffice", "/f/a.xlsx"}},
	}
	for _, tt := range tests {
		l := New(WithPlatform(tt.platform))
		assert.Equal(t, tt.want, l.Argv(tt.command, "/f/a.docx"), "%s %v", tt.platform, tt.command)
	}
}

func TestLaunch(t *testing.T) {
	var got []string
	l := New(WithPlatform("linux"), WithStarter(func(name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}))

	require.NoError(t, l.Launch(nil, "/f/a.pptx"))
	assert.Equal(t, []string{"xdg-open", "/f/a.pptx"}, got)
}

func TestLaunchErrors(t *testing.T) {
	boom := errors.New("not found")
	l := New(WithStarter(func(string, ...string) error { return boom }))

	assert.ErrorIs(t, l.Launch([]string{"app", "x"}, "x"), boom)
	assert.ErrorIs(t, New().Launch(nil, ""), ErrNoFile)
}
