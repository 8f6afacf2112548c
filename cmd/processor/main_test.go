package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slapulse/internal/infrastructure"
	"slapulse/internal/testutil"
)

func TestParseFlags(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{
			name: "defaults output name",
			args: []string{"-logmanager", "a.xlsx", "-gestora", "b.xlsx"},
			want: options{logmanager: "a.xlsx", gestora: "b.xlsx", out: "base-consolidada-2024-03-09.csv", slaTarget: 95},
		},
		{
			name: "explicit output and target",
			args: []string{"-logmanager", "a.xlsx", "-gestora", "b.xlsx", "-out", "x.csv", "-sla-target", "90"},
			want: options{logmanager: "a.xlsx", gestora: "b.xlsx", out: "x.csv", slaTarget: 90},
		},
		{name: "missing gestora", args: []string{"-logmanager", "a.xlsx"}, wantErr: true},
		{name: "unknown flag", args: []string{"-nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		logmanager: testutil.LogmanagerWorkbook(t, dir),
		gestora:    testutil.GestoraWorkbook(t, dir),
		out:        filepath.Join(dir, "out", "base.csv"),
		slaTarget:  95,
	}

	var out bytes.Buffer
	err := run(context.Background(), opts, infrastructure.NewLogger(io.Discard, "error"), &out)
	require.NoError(t, err)

	summary := out.String()
	assert.Contains(t, summary, "Pacotes:    3")
	assert.Contains(t, summary, "Meta de SLA 95% não atingida")
	assert.Contains(t, summary, "CSV gravado em "+opts.out)

	data, err := os.ReadFile(opts.out)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleRecords+1, strings.Count(string(data), "\n"))
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		logmanager: filepath.Join(dir, "missing.xlsx"),
		gestora:    testutil.GestoraWorkbook(t, dir),
		out:        filepath.Join(dir, "base.csv"),
		slaTarget:  95,
	}

	err := run(context.Background(), opts, infrastructure.NewLogger(io.Discard, "error"), io.Discard)
	require.Error(t, err)
	assert.NoFileExists(t, opts.out)
}
