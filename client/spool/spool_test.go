package spool_test

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xxscloud/vhall/client/spool"
)

func md5Hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func TestWrite(t *testing.T) {
	content := []byte("cover image bytes")

	testCases := []struct {
		name          string
		contentLength int64
		opts          []spool.Option
		expErr        error
	}{
		{
			name:          "plain",
			contentLength: int64(len(content)),
		},
		{
			name:          "unknown length",
			contentLength: -1,
		},
		{
			name:          "checksum match",
			contentLength: int64(len(content)),
			opts:          []spool.Option{spool.WithChecksum(md5.New(), strings.ToUpper(md5Hex(content)))},
		},
		{
			name:          "checksum mismatch",
			contentLength: int64(len(content)),
			opts:          []spool.Option{spool.WithChecksum(md5.New(), md5Hex([]byte("other")))},
			expErr:        spool.ErrChecksumMismatch,
		},
		{
			name:          "length mismatch",
			contentLength: int64(len(content)) + 1,
			expErr:        spool.ErrContentLengthMismatch,
		},
		{
			name:          "with progress",
			contentLength: int64(len(content)),
			opts:          []spool.Option{spool.WithProgress()},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			dest := filepath.Join(dir, "cover.jpg")

			err := spool.Write(t.Context(), bytes.NewReader(content), tc.contentLength, dest, slog.Default(), tc.opts...)

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Fatalf("exp err %v, got: %v", tc.expErr, err)
				}
				if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
					t.Errorf("destination should not exist after failure")
				}
				entries, _ := os.ReadDir(dir)
				if len(entries) != 0 {
					t.Errorf("temp files left behind: %v", entries)
				}
				return
			}

			if err != nil {
				t.Fatalf("exp nil err, got: %v", err)
			}

			got, err := os.ReadFile(dest)
			if err != nil {
				t.Fatalf("reading destination: %v", err)
			}
			if !bytes.Equal(got, content) {
				t.Errorf("exp %q, got %q", content, got)
			}
		})
	}
}

func TestWrite_ErrorDetail(t *testing.T) {
	content := []byte("cover image bytes")

	testCases := []struct {
		name          string
		contentLength int64
		opts          []spool.Option
		exp           spool.Error
	}{
		{
			name:          "checksum",
			contentLength: int64(len(content)),
			opts:          []spool.Option{spool.WithChecksum(md5.New(), "ABCDEF")},
			exp:           spool.Error{Stage: "checksum", Want: "ABCDEF", Got: md5Hex(content)},
		},
		{
			name:          "length",
			contentLength: 99,
			exp:           spool.Error{Stage: "length", Want: "99", Got: "17"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "cover.jpg")

			err := spool.Write(t.Context(), bytes.NewReader(content), tc.contentLength, dest, slog.Default(), tc.opts...)
			spoolErr, ok := errors.AsType[*spool.Error](err)
			if !ok {
				t.Fatalf("exp *spool.Error, got: %T %v", err, err)
			}
			if spoolErr.Stage != tc.exp.Stage || spoolErr.Want != tc.exp.Want || spoolErr.Got != tc.exp.Got {
				t.Errorf("unexpected error detail: %+v", spoolErr)
			}
		})
	}
}

func TestWrite_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	dest := filepath.Join(t.TempDir(), "doc.pdf")
	err := spool.Write(ctx, strings.NewReader("x"), 1, dest, nil)
	if !errors.Is(err, spool.ErrCancelled) {
		t.Fatalf("exp ErrCancelled, got: %v", err)
	}
}

func TestWrite_InvalidOption(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "doc.pdf")
	if err := spool.Write(t.Context(), strings.NewReader("x"), 1, dest, nil, spool.WithChecksum(nil, "abc")); err == nil {
		t.Fatal("exp error for nil hash")
	}
	if err := spool.Write(t.Context(), strings.NewReader("x"), 1, "", nil); err == nil {
		t.Fatal("exp error for empty destination")
	}
}

func TestTemp(t *testing.T) {
	content := []byte("slides")

	path, err := spool.Temp(t.Context(), bytes.NewReader(content), int64(len(content)), ".pdf", nil)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	if filepath.Ext(path) != ".pdf" {
		t.Errorf("exp .pdf extension, got %s", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("exp %q, got %q", content, got)
	}
}
