package service

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibework/backend/internal/calendar"
	"vibework/backend/internal/db"
	"vibework/backend/internal/media"
	"vibework/backend/internal/model"
	"vibework/backend/internal/repository"
	"vibework/backend/internal/session"
	"vibework/backend/internal/settings"
)

// idleClock never fires; tests drive the engine through Tick.
type idleClock struct{}

func (idleClock) Now() time.Time                     { return time.Now() }
func (idleClock) Every(time.Duration, func()) func() { return func() {} }

func newSessionService(t *testing.T) (*SessionService, *session.Engine) {
	t.Helper()
	catalog, err := model.NewPresetCatalog(model.DefaultPresets()...)
	require.NoError(t, err)
	engine := session.New(session.Options{Clock: idleClock{}})
	t.Cleanup(engine.Close)
	return NewSessionService(engine, catalog), engine
}

func newCalendarService(t *testing.T, now time.Time) *CalendarService {
	t.Helper()
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "calendar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database, db.Migrations()))

	store := calendar.NewStore(repository.NewEventRepository(database))
	svc := NewCalendarService(store, calendar.DefaultHourHeight, func() time.Time { return now })
	svc.Load(context.Background(), false)
	return svc
}

func TestSessionStartMapsErrors(t *testing.T) {
	svc, _ := newSessionService(t)

	snapshot, apiErr := svc.Start("study")
	require.Nil(t, apiErr)
	assert.Equal(t, "STUDY", snapshot.Preset.Tag)
	assert.Equal(t, model.StatusRunning, snapshot.Status)

	_, apiErr = svc.Start("FOCUS")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "session_active", apiErr.Code)

	svc.Stop()
	_, apiErr = svc.Start("NAPPING")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestSessionPauseAndStop(t *testing.T) {
	svc, _ := newSessionService(t)
	_, apiErr := svc.Start("READ")
	require.Nil(t, apiErr)

	paused := svc.PauseResume()
	assert.True(t, paused.IsPaused)
	assert.Equal(t, model.StatusPaused, paused.Status)

	stopped := svc.Stop()
	assert.Equal(t, model.StatusIdle, stopped.Status)
	assert.Nil(t, stopped.Preset)
	assert.Equal(t, stopped, svc.State())
}

func TestReplacePresets(t *testing.T) {
	svc, _ := newSessionService(t)
	prefs := settings.Defaults()
	prefs.CustomPreset = &model.Preset{Tag: model.CustomPresetTag, IsCustom: true, WorkDuration: 60, ShortBreakDuration: 30, LongBreakDuration: 90, CyclesBeforeLongBreak: 2}
	catalog, err := settings.Catalog(prefs)
	require.NoError(t, err)

	svc.ReplacePresets(catalog)
	assert.Len(t, svc.Presets(), 5)

	snapshot, apiErr := svc.Start("custom")
	require.Nil(t, apiErr)
	assert.Equal(t, 60, snapshot.TimeLeftSeconds)
}

func TestCalendarDayView(t *testing.T) {
	now := time.Date(2025, 11, 12, 9, 30, 0, 0, time.UTC)
	svc := newCalendarService(t, now)
	ctx := context.Background()

	added, apiErr := svc.Add(ctx, "Study", 60, 30, "2025-11-12")
	require.Nil(t, apiErr)
	assert.Equal(t, calendar.Box{Top: 80, Height: 40, ShowDuration: false}, added.Layout)
	assert.Equal(t, "30m", added.Duration)
	assert.Equal(t, "bg-blue-500", added.ColorClass)

	day, apiErr := svc.Day("")
	require.Nil(t, apiErr)
	assert.Equal(t, "2025-11-12", day.DateKey)
	assert.True(t, day.IsToday)
	require.NotNil(t, day.NowOffset)
	assert.Equal(t, 760.0, *day.NowOffset)
	assert.Equal(t, 660.0, day.ScrollOffset)
	require.Len(t, day.Events, 1)

	other, apiErr := svc.Day("2025-11-13")
	require.Nil(t, apiErr)
	assert.False(t, other.IsToday)
	assert.Nil(t, other.NowOffset)
	assert.Empty(t, other.Events)
	assert.NotNil(t, other.Events)
}

func TestCalendarErrorMapping(t *testing.T) {
	svc := newCalendarService(t, time.Now())
	ctx := context.Background()

	_, apiErr := svc.Add(ctx, "Study", 1440, 30, "2025-11-12")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	_, apiErr = svc.Day("12/11/2025")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	apiErr = svc.Remove(ctx, 999)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestCalendarWeeksAndSelect(t *testing.T) {
	now := time.Date(2025, 11, 12, 9, 0, 0, 0, time.UTC)
	svc := newCalendarService(t, now)

	weeks := svc.Weeks(calendar.DefaultWindowDays)
	assert.Len(t, weeks.Weeks, 53)
	assert.Equal(t, 26, weeks.TodayIndex)
	assert.Contains(t, weeks.Weeks[weeks.TodayIndex].Days, "2025-11-12")
	assert.Equal(t, "2025-11-10", weeks.Weeks[weeks.TodayIndex].Days[0])

	selected, apiErr := svc.Select("2025-11-12", "2025-11-19")
	require.Nil(t, apiErr)
	assert.Equal(t, "2025-11-17", selected)

	selected, apiErr = svc.Select("2025-11-20", "2025-11-14")
	require.Nil(t, apiErr)
	assert.Equal(t, "2025-11-12", selected)

	_, apiErr = svc.Select("bad", "2025-11-14")
	assert.NotNil(t, apiErr)
}

func TestSettingsUpdateAppliesVolumeAndPresets(t *testing.T) {
	store, err := settings.Open(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	sessions, _ := newSessionService(t)
	audio := media.NewPlayer("audio")
	svc := NewSettingsService(store, sessions, audio)

	prefs := svc.Get()
	prefs.AudioVolume = 0.6
	prefs.CustomPreset = &model.Preset{WorkDuration: 120, ShortBreakDuration: 30, LongBreakDuration: 300, CyclesBeforeLongBreak: 3}
	saved, apiErr := svc.Update(prefs)
	require.Nil(t, apiErr)
	assert.Equal(t, 0.6, saved.AudioVolume)
	assert.Equal(t, 0.6, audio.Volume())
	assert.Len(t, sessions.Presets(), 5)

	prefs.SoundEnabled = false
	_, apiErr = svc.Update(prefs)
	require.Nil(t, apiErr)
	assert.Equal(t, 0.0, audio.Volume())

	prefs.AudioVolume = 2
	_, apiErr = svc.Update(prefs)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}
