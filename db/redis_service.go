package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"seating-chart-server-go/layout"
	"seating-chart-server-go/models"
	"seating-chart-server-go/roster"
)

const (
	classesKey          = "classes"   // Set: Stores all class IDs
	classInfoPrefix     = "class:"    // Hash prefix: class:{id} -> id, name, counts
	classSettingsSuffix = ":settings" // String: class:{id}:settings -> settings JSON
	classStudentsSuffix = ":students" // Set: class:{id}:students -> roster IDs for roll call
)

var (
	ErrClassIDRequired   = errors.New("class ID cannot be empty")
	ErrClassNameRequired = errors.New("class name cannot be empty")
)

// RedisService stores classrooms in Redis
type RedisService struct {
	Client *redis.Client
	Parser *roster.Parser
	log    zerolog.Logger
}

// NewRedisService creates a new RedisService instance
func NewRedisService(client *redis.Client, l zerolog.Logger) *RedisService {
	return &RedisService{
		Client: client,
		Parser: roster.NewParser(l),
		log:    l,
	}
}

// Helper to generate class info key
func getClassInfoKey(classID string) string {
	return classInfoPrefix + classID
}

// Helper to generate class settings key
func getClassSettingsKey(classID string) string {
	return classInfoPrefix + classID + classSettingsSuffix
}

// Helper to generate class students set key
func getClassStudentsKey(classID string) string {
	return classInfoPrefix + classID + classStudentsSuffix
}

// --- Class Operations ---

// CreateClass stores a new empty classroom and returns its summary
func (s *RedisService) CreateClass(ctx context.Context, name string) (*models.ClassSummary, error) {
	if name == "" {
		return nil, ErrClassNameRequired
	}
	id := "class-" + uuid.NewString()
	settings := emptySettings(name)
	if err := s.SaveSettings(ctx, id, settings); err != nil {
		return nil, err
	}
	return &models.ClassSummary{ID: id, Name: name}, nil
}

func emptySettings(name string) models.AppSettings {
	return models.AppSettings{
		ClassName: name,
		Students:  []models.Student{},
		ClassroomLayout: models.ClassroomLayout{
			Tables:      []models.Table{},
			TableGroups: []models.TableGroup{},
		},
	}
}

// SaveSettings replaces the stored state of a classroom, creating it when new
func (s *RedisService) SaveSettings(ctx context.Context, classID string, settings models.AppSettings) error {
	if classID == "" {
		return ErrClassIDRequired
	}
	if settings.ClassName == "" {
		return ErrClassNameRequired
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings for class %s: %w", classID, err)
	}

	studentIDs := make([]interface{}, 0, len(settings.Students))
	for _, st := range settings.Students {
		studentIDs = append(studentIDs, st.ID)
	}

	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, classesKey, classID)
		pipe.HSet(ctx, getClassInfoKey(classID), map[string]interface{}{
			"id":           classID,
			"name":         settings.ClassName,
			"studentCount": len(settings.Students),
			"tableCount":   len(settings.Tables),
		})
		pipe.Set(ctx, getClassSettingsKey(classID), data, 0)
		pipe.Del(ctx, getClassStudentsKey(classID))
		if len(studentIDs) > 0 {
			pipe.SAdd(ctx, getClassStudentsKey(classID), studentIDs...)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("class_id", classID).Msg("Error saving class settings")
		return fmt.Errorf("failed to save class to Redis: %w", err)
	}
	s.log.Debug().Str("class_id", classID).Int("students", len(settings.Students)).
		Int("tables", len(settings.Tables)).Msg("Saved class settings")
	return nil
}

// GetSettings retrieves the full state of a classroom; nil when not found
func (s *RedisService) GetSettings(ctx context.Context, classID string) (*models.AppSettings, error) {
	data, err := s.Client.Get(ctx, getClassSettingsKey(classID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found is not necessarily an error in API context
		}
		s.log.Error().Err(err).Str("class_id", classID).Msg("Error getting class settings")
		return nil, fmt.Errorf("failed to get class from Redis: %w", err)
	}

	var settings models.AppSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings for class %s: %w", classID, err)
	}
	if settings.TableGroups == nil {
		settings.TableGroups = []models.TableGroup{}
	}
	return &settings, nil
}

// ListClasses retrieves the summaries of all classes
func (s *RedisService) ListClasses(ctx context.Context) ([]models.ClassSummary, error) {
	classIDs, err := s.Client.SMembers(ctx, classesKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.ClassSummary{}, nil
		}
		s.log.Error().Err(err).Msg("Error getting all class IDs")
		return nil, fmt.Errorf("failed to get class IDs from Redis: %w", err)
	}

	classes := make([]models.ClassSummary, 0, len(classIDs))
	for _, id := range classIDs {
		data, err := s.Client.HGetAll(ctx, getClassInfoKey(id)).Result()
		if err != nil {
			// Log the error but continue trying to fetch others
			s.log.Warn().Err(err).Str("class_id", id).Msg("Error fetching class details")
			continue
		}
		if len(data) == 0 {
			continue
		}
		classes = append(classes, summaryFromHash(data))
	}
	return classes, nil
}

func summaryFromHash(data map[string]string) models.ClassSummary {
	students, _ := strconv.Atoi(data["studentCount"])
	tables, _ := strconv.Atoi(data["tableCount"])
	return models.ClassSummary{
		ID:           data["id"],
		Name:         data["name"],
		StudentCount: students,
		TableCount:   tables,
	}
}

// ClassExists checks if a class ID exists in the classes set
func (s *RedisService) ClassExists(ctx context.Context, classID string) (bool, error) {
	exists, err := s.Client.SIsMember(ctx, classesKey, classID).Result()
	if err != nil {
		s.log.Error().Err(err).Str("class_id", classID).Msg("Error checking class existence")
		return false, fmt.Errorf("failed to check class existence: %w", err)
	}
	return exists, nil
}

// DeleteClass removes a classroom and reports whether it existed
func (s *RedisService) DeleteClass(ctx context.Context, classID string) (bool, error) {
	var removed *redis.IntCmd
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.SRem(ctx, classesKey, classID)
		pipe.Del(ctx, getClassInfoKey(classID), getClassSettingsKey(classID), getClassStudentsKey(classID))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete class %s: %w", classID, err)
	}
	return removed.Val() > 0, nil
}

// --- Student Operations ---

// GetRandomStudent selects a random student from a class roster; nil when
// the class is unknown or has no students
func (s *RedisService) GetRandomStudent(ctx context.Context, classID string) (*models.Student, error) {
	randomStudentID, err := s.Client.SRandMember(ctx, getClassStudentsKey(classID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		s.log.Error().Err(err).Str("class_id", classID).Msg("Error getting random student ID")
		return nil, fmt.Errorf("failed to get random student ID from Redis for class %s: %w", classID, err)
	}
	if randomStudentID == "" {
		return nil, nil
	}

	settings, err := s.GetSettings(ctx, classID)
	if err != nil || settings == nil {
		return nil, err
	}
	for _, st := range settings.Students {
		if st.ID == randomStudentID {
			st := st
			return &st, nil
		}
	}
	s.log.Warn().Str("class_id", classID).Str("student_id", randomStudentID).
		Msg("Roll-call set references a student missing from the roster")
	return nil, nil
}

// --- Roster Import ---

// ImportStudents replaces the roster of a class with the students in file.
// Seat assignments are cleared since they may name students no longer on
// the roster. Unknown classes are created.
func (s *RedisService) ImportStudents(ctx context.Context, classID string, file io.Reader, filename string) (int, error) {
	if classID == "" {
		return 0, ErrClassIDRequired
	}
	settings, err := s.GetSettings(ctx, classID)
	if err != nil {
		return 0, fmt.Errorf("failed to load class before import: %w", err)
	}
	if settings == nil {
		s.log.Info().Str("class_id", classID).Msg("Import target class does not exist. Creating it.")
		created := emptySettings("Imported Class " + classID)
		settings = &created
	}

	students, err := s.Parser.Parse(file, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse roster %s: %w", filename, err)
	}

	settings.Students = students
	settings.Tables = layout.ClearAssignments(settings.Tables)
	if err := s.SaveSettings(ctx, classID, *settings); err != nil {
		return 0, err
	}

	s.log.Info().Str("class_id", classID).Int("imported", len(students)).Str("file", filename).
		Msg("Imported students")
	return len(students), nil
}

// --- Utility ---

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}
