package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vibework/backend/internal/model"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return tx, nil
}

// Insert writes event in its own transaction and returns it with the assigned id.
func (r *EventRepository) Insert(ctx context.Context, event model.CalendarEvent) (model.CalendarEvent, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	defer tx.Rollback()

	id, err := r.InsertTx(ctx, tx, event)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.CalendarEvent{}, fmt.Errorf("commit insert event: %w", err)
	}

	event.ID = id
	return event, nil
}

func (r *EventRepository) InsertTx(ctx context.Context, tx *sql.Tx, event model.CalendarEvent) (int64, error) {
	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO events (title, start, duration, date, colorClass) VALUES (?, ?, ?, ?, ?)`,
		event.TagName,
		event.StartMinutes,
		event.DurationMinutes,
		event.DateKey,
		event.ColorClass,
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert event id: %w", err)
	}
	return id, nil
}

func (r *EventRepository) ListAll(ctx context.Context) ([]model.CalendarEvent, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, title, start, duration, date, colorClass
		 FROM events
		 ORDER BY date, start, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEvents(rows *sql.Rows) ([]model.CalendarEvent, error) {
	events := make([]model.CalendarEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func scanEvent(s scanner) (*model.CalendarEvent, error) {
	event := model.CalendarEvent{}
	err := s.Scan(
		&event.ID,
		&event.TagName,
		&event.StartMinutes,
		&event.DurationMinutes,
		&event.DateKey,
		&event.ColorClass,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &event, nil
}
