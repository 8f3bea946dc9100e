package workflow

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/store/backup"
	"github.com/de-tools/relationship-roi/pkg/store/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name  string
	runs  atomic.Int64
	fails bool
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	if j.fails {
		return assert.AnError
	}
	return nil
}

func TestRunner_RunsUntilCancelled(t *testing.T) {
	job := &countingJob{name: "count"}
	r := NewRunner(job, RunnerConfig{Interval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	progress := <-r.Progress()
	assert.Equal(t, int64(1), progress.Runs)
	assert.NoError(t, progress.LastError)

	cancel()
	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
	assert.GreaterOrEqual(t, job.runs.Load(), int64(1))
}

func TestRunner_ReportsFailures(t *testing.T) {
	job := &countingJob{name: "broken", fails: true}
	r := NewRunner(job, RunnerConfig{Interval: time.Hour, SleepInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	progress := <-r.Progress()
	assert.Equal(t, int64(1), progress.Failures)
	assert.ErrorIs(t, progress.LastError, assert.AnError)
}

func TestController(t *testing.T) {
	ctx := context.Background()
	ctrl := NewController()

	job := &countingJob{name: "a"}
	require.NoError(t, ctrl.Start(ctx, job, RunnerConfig{Interval: time.Hour}))
	assert.Error(t, ctrl.Start(ctx, job, RunnerConfig{}), "duplicate job name")
	assert.Error(t, ctrl.Start(ctx, nil, RunnerConfig{}))
	assert.Equal(t, []string{"a"}, ctrl.Running())

	require.NoError(t, ctrl.Cancel(ctx, "a"))
	assert.Empty(t, ctrl.Running())
	assert.Error(t, ctrl.Cancel(ctx, "a"))

	require.NoError(t, ctrl.Start(ctx, &countingJob{name: "b"}, RunnerConfig{Interval: time.Hour}))
	ctrl.Shutdown(ctx)
	assert.Empty(t, ctrl.Running())
}

func TestPurgeJob(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	store := kv.NewMemoryStoreWithClock(func() time.Time { return now })
	require.NoError(t, store.Put(ctx, "rate:x", "1", 0))

	job := PurgeJob{Purger: store}
	assert.Equal(t, "kv-purge", job.Name())
	require.NoError(t, job.Run(ctx))

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type memorySource map[string]domain.Ledger

func (m memorySource) Profiles(context.Context) ([]string, error) {
	var out []string
	for p := range m {
		out = append(out, p)
	}
	return out, nil
}

func (m memorySource) Load(_ context.Context, profile string) (domain.Ledger, error) {
	return m[profile], nil
}

func TestBackupJob(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	uploader, err := backup.NewDirUploader(root)
	require.NoError(t, err)

	l := domain.DefaultLedger()
	l.People = []domain.Person{{ID: "p1", Name: "지수"}}
	job := BackupJob{
		Source:   memorySource{"default": l},
		Uploader: uploader,
		Now:      func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) },
	}
	require.NoError(t, job.Run(ctx))

	objects, err := uploader.List(ctx, "default/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "default/20240501T093000Z.json", objects[0].Key)
}

func TestBackupProfile_Document(t *testing.T) {
	ctx := context.Background()
	uploader := &captureUploader{}

	l := domain.DefaultLedger()
	location, err := BackupProfile(ctx, memorySource{"work": l}, uploader, "work", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "mem://work/20240501T000000Z.json", location)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(uploader.body, &doc))
	assert.Equal(t, float64(1), doc["version"])
}

type captureUploader struct {
	body []byte
}

func (c *captureUploader) Upload(_ context.Context, key string, body []byte, _ string) (string, error) {
	c.body = body
	return "mem://" + key, nil
}

func (c *captureUploader) List(context.Context, string) ([]backup.Object, error) {
	return nil, nil
}
