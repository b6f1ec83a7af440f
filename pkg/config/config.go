package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log     LogConfig
	Input   InputConfig
	Output  OutputConfig
	Solver  SolverConfig
	Exports ExportsConfig
	Archive ArchiveConfig
	Publish PublishConfig
	Metrics MetricsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// InputConfig locates the source workbook and names its columns.
type InputConfig struct {
	File    string
	Sheet   string
	Columns ColumnsConfig
}

// ColumnsConfig holds the header names of the source workbook.
type ColumnsConfig struct {
	Teachers        string
	Subjects        string
	TimeSlots       string
	Rooms           string
	TeacherSubjects string
	TeacherSlots    string
	TeacherCosts    string
	SubjectCosts    string
	TimeSlotCosts   string
	RoomCosts       string
}

// OutputConfig locates the workbook the schedule is written to.
type OutputConfig struct {
	File  string
	Sheet string
}

// SolverConfig tunes the GLPK branch-and-cut call.
type SolverConfig struct {
	Presolve bool
	MsgLevel string
}

// ExportsConfig toggles extra renditions of the schedule.
type ExportsConfig struct {
	Dir string
	CSV bool
	PDF bool
}

// ArchiveConfig controls recording of runs in a SQL database.
type ArchiveConfig struct {
	Enabled    bool
	Driver     string
	SQLitePath string
	Database   DatabaseConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// PublishConfig controls upload of the output workbook to object storage.
type PublishConfig struct {
	Enabled bool
	S3      S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PathStyle       bool
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

// MetricsConfig governs the Pushgateway hand-off at the end of a run.
type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Input = InputConfig{
		File:  v.GetString("INPUT_FILE"),
		Sheet: v.GetString("INPUT_SHEET"),
		Columns: ColumnsConfig{
			Teachers:        v.GetString("COLUMN_TEACHERS"),
			Subjects:        v.GetString("COLUMN_SUBJECTS"),
			TimeSlots:       v.GetString("COLUMN_TIME_SLOTS"),
			Rooms:           v.GetString("COLUMN_ROOMS"),
			TeacherSubjects: v.GetString("COLUMN_TEACHER_SUBJECTS"),
			TeacherSlots:    v.GetString("COLUMN_TEACHER_SLOTS"),
			TeacherCosts:    v.GetString("COLUMN_TEACHER_COSTS"),
			SubjectCosts:    v.GetString("COLUMN_SUBJECT_COSTS"),
			TimeSlotCosts:   v.GetString("COLUMN_TIME_SLOT_COSTS"),
			RoomCosts:       v.GetString("COLUMN_ROOM_COSTS"),
		},
	}

	cfg.Output = OutputConfig{
		File:  v.GetString("OUTPUT_FILE"),
		Sheet: v.GetString("OUTPUT_SHEET"),
	}

	cfg.Solver = SolverConfig{
		Presolve: v.GetBool("SOLVER_PRESOLVE"),
		MsgLevel: v.GetString("SOLVER_MSG_LEVEL"),
	}

	cfg.Exports = ExportsConfig{
		Dir: v.GetString("EXPORT_DIR"),
		CSV: v.GetBool("EXPORT_CSV"),
		PDF: v.GetBool("EXPORT_PDF"),
	}

	cfg.Archive = ArchiveConfig{
		Enabled:    v.GetBool("ARCHIVE_ENABLED"),
		Driver:     v.GetString("ARCHIVE_DRIVER"),
		SQLitePath: v.GetString("ARCHIVE_SQLITE_PATH"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
	}

	cfg.Publish = PublishConfig{
		Enabled: v.GetBool("PUBLISH_S3_ENABLED"),
		S3: S3Config{
			Bucket:          v.GetString("S3_BUCKET"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			PathStyle:       v.GetBool("S3_PATH_STYLE"),
			Prefix:          strings.Trim(v.GetString("S3_PREFIX"), "/"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
		},
	}

	cfg.Metrics = MetricsConfig{
		PushgatewayURL: v.GetString("METRICS_PUSHGATEWAY_URL"),
		Job:            v.GetString("METRICS_JOB"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("INPUT_FILE", "Entregable 3 Horarios Pulp.xlsx")
	v.SetDefault("INPUT_SHEET", "")
	v.SetDefault("COLUMN_TEACHERS", "Profesores")
	v.SetDefault("COLUMN_SUBJECTS", "Materias")
	v.SetDefault("COLUMN_TIME_SLOTS", "Horarios")
	v.SetDefault("COLUMN_ROOMS", "Salones")
	v.SetDefault("COLUMN_TEACHER_SUBJECTS", "Materias que puede dar cada profesor")
	v.SetDefault("COLUMN_TEACHER_SLOTS", "Disponibilidad de horario de cada profesor")
	v.SetDefault("COLUMN_TEACHER_COSTS", "Costos Profesores")
	v.SetDefault("COLUMN_SUBJECT_COSTS", "Costos Materias")
	v.SetDefault("COLUMN_TIME_SLOT_COSTS", "Costos Horarios")
	v.SetDefault("COLUMN_ROOM_COSTS", "Costos Salones")

	v.SetDefault("OUTPUT_FILE", "horarios_asignados.xlsx")
	v.SetDefault("OUTPUT_SHEET", "Horarios Asignados")

	v.SetDefault("SOLVER_PRESOLVE", true)
	v.SetDefault("SOLVER_MSG_LEVEL", "err")

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_CSV", false)
	v.SetDefault("EXPORT_PDF", false)

	v.SetDefault("ARCHIVE_ENABLED", false)
	v.SetDefault("ARCHIVE_DRIVER", "postgres")
	v.SetDefault("ARCHIVE_SQLITE_PATH", "timetable.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sma_timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("PUBLISH_S3_ENABLED", false)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PATH_STYLE", false)
	v.SetDefault("S3_PREFIX", "timetables")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")

	v.SetDefault("METRICS_PUSHGATEWAY_URL", "")
	v.SetDefault("METRICS_JOB", "sma_timetable")
}
