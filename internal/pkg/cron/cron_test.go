package cron

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	svc := NewService("", 1)
	assert.NotNil(t, svc)
	assert.NotNil(t, svc.stopChan)
}

func TestService_StartAndStop(t *testing.T) {
	svc := NewService(t.TempDir(), 1)

	svc.Start()
	time.Sleep(10 * time.Millisecond)
	svc.Stop()
}

func TestService_RunNow_RemovesExpiredDirs(t *testing.T) {
	tempDir := t.TempDir()

	// 一个过期目录，一个新目录
	expired := filepath.Join(tempDir, "upload_old")
	fresh := filepath.Join(tempDir, "upload_new")
	require.NoError(t, os.Mkdir(expired, 0o755))
	require.NoError(t, os.Mkdir(fresh, 0o755))

	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(expired, old, old))

	svc := NewService(tempDir, 1)
	cleaned := svc.RunNow()
	assert.Equal(t, 1, cleaned)

	_, err := os.Stat(expired)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestService_RunNow_EmptyDir(t *testing.T) {
	svc := NewService(t.TempDir(), 1)
	assert.Equal(t, 0, svc.RunNow())
}

func TestService_RunNow_MissingDir(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "does-not-exist"), 1)
	assert.Equal(t, 0, svc.RunNow())
}

func TestService_RunNow_IgnoresFiles(t *testing.T) {
	tempDir := t.TempDir()

	// 普通文件不清理，即使过期
	file := filepath.Join(tempDir, "stray.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(file, old, old))

	svc := NewService(tempDir, 1)
	assert.Equal(t, 0, svc.RunNow())

	_, err := os.Stat(file)
	assert.NoError(t, err)
}
