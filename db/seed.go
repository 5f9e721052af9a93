package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"seating-chart-server-go/layout"
	"seating-chart-server-go/models"
	"seating-chart-server-go/roster"
)

// DemoClassID is the ID of the seeded demo classroom
const DemoClassID = "class-demo"

// SeedDemoClass stores a demo classroom when no class exists yet. It
// reports whether the demo class was added.
func (s *RedisService) SeedDemoClass(ctx context.Context) (bool, error) {
	count, err := s.Client.SCard(ctx, classesKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("failed to check existing classes (key %s): %w", classesKey, err)
	}
	if count > 0 {
		s.log.Info().Int64("classes", count).Msg("Found existing classes. Skipping demo data.")
		return false, nil
	}

	settings, err := DemoSettings(s.Parser)
	if err != nil {
		return false, err
	}
	if err := s.SaveSettings(ctx, DemoClassID, settings); err != nil {
		return false, err
	}
	s.log.Info().Str("class_id", DemoClassID).Int("students", len(settings.Students)).
		Msg("Added demo classroom")
	return true, nil
}

// DemoSettings builds a classroom from the roster template: six tables of
// four and two pairs, the front two tables grouped, and a teacher desk.
func DemoSettings(p *roster.Parser) (models.AppSettings, error) {
	var buf bytes.Buffer
	if err := roster.WriteTemplate(&buf, roster.FormatCSV); err != nil {
		return models.AppSettings{}, err
	}
	students, err := p.Parse(&buf, roster.TemplateFilename(roster.FormatCSV))
	if err != nil {
		return models.AppSettings{}, fmt.Errorf("failed to parse demo roster: %w", err)
	}

	var l models.ClassroomLayout
	for i, capacity := range []int{4, 4, 4, 4, 4, 4, 2, 2} {
		x := float64(40 + (i%4)*280)
		y := float64(200 + (i/4)*220)
		if l, _, err = layout.AddTable(l, capacity, x, y); err != nil {
			return models.AppSettings{}, err
		}
	}
	if l, _, err = layout.GroupTables(l, []string{l.Tables[0].ID, l.Tables[1].ID}, "Front"); err != nil {
		return models.AppSettings{}, err
	}
	if l, err = layout.PlaceTeacherDesk(l, 480, 40); err != nil {
		return models.AppSettings{}, err
	}

	return models.AppSettings{
		ClassName:       "Demo Classroom",
		Students:        students,
		ClassroomLayout: l,
	}, nil
}
