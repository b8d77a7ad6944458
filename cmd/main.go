package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/krhodes5267/daily-safety-report/internal/adapters/feed"
	app "github.com/krhodes5267/daily-safety-report/internal/app"
	"github.com/krhodes5267/daily-safety-report/internal/config"
	"github.com/krhodes5267/daily-safety-report/internal/domain/enrich"
	"github.com/krhodes5267/daily-safety-report/internal/domain/findings"
	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
	"github.com/krhodes5267/daily-safety-report/internal/testdata"
	"github.com/krhodes5267/daily-safety-report/pkg/logger"
)

// Report family names accepted by -report.
const (
	familyCamera   = "camera"
	familySpeeding = "speeding"
	familyWeekly   = "weekly"
)

const generatedEventCount = 200

func main() {
	os.Exit(run())
}

func run() int {
	var (
		family      = flag.String("report", familyCamera, "report family: camera, speeding, or weekly")
		date        = flag.String("date", "", "report date YYYY-MM-DD (default: today in the configured timezone)")
		cameraPath  = flag.String("camera", "", "camera events payload file (JSON)")
		speedPath   = flag.String("speeding", "", "speeding events payload file (JSON)")
		assessPath  = flag.String("assessments", "", "field assessments export file (CSV)")
		incPath     = flag.String("incidents", "", "incidents export file (CSV)")
		generateDir = flag.String("generate", "", "write synthetic fixture files into this directory and exit")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Error(ctx, "invalid timezone", logger.String("timezone", cfg.Timezone), logger.Error(err))
		return 1
	}

	if *generateDir != "" {
		if err := generateFixtures(ctx, *generateDir, time.Now(), loc); err != nil {
			log.Error(ctx, "fixture generation failed", logger.Error(err))
			return 1
		}
		return 0
	}

	day := time.Now().In(loc)
	if *date != "" {
		day, err = time.ParseInLocation("2006-01-02", *date, loc)
		if err != nil {
			log.Error(ctx, "invalid -date", logger.String("date", *date), logger.Error(err))
			return 1
		}
	}

	opts, err := app.FromConfig(cfg)
	if err != nil {
		log.Error(ctx, "service configuration failed", logger.Error(err))
		return 1
	}
	svc := app.New(append(opts, app.WithLogger(log))...)

	decoder := feed.NewDecoder(feed.WithLogger(log))

	var report any
	switch *family {
	case familyCamera:
		camera, err := decodeFile(ctx, decoder.CameraEvents, *cameraPath)
		if err != nil {
			log.Error(ctx, "failed to read camera payload", logger.Error(err))
			return 1
		}
		report = svc.DailyCamera(ctx, day, camera)

	case familySpeeding:
		speeding, err := decodeFile(ctx, decoder.SpeedingEvents, *speedPath)
		if err != nil {
			log.Error(ctx, "failed to read speeding payload", logger.Error(err))
			return 1
		}
		report = svc.DailySpeeding(ctx, day, speeding)

	case familyWeekly:
		camera, err := decodeFile(ctx, decoder.CameraEvents, *cameraPath)
		if err != nil {
			log.Error(ctx, "failed to read camera payload", logger.Error(err))
			return 1
		}
		speeding, err := decodeFile(ctx, decoder.SpeedingEvents, *speedPath)
		if err != nil {
			log.Error(ctx, "failed to read speeding payload", logger.Error(err))
			return 1
		}
		rows, err := readAssessments(ctx, decoder, *assessPath)
		if err != nil {
			log.Error(ctx, "failed to read assessment export", logger.Error(err))
			return 1
		}
		kpa, err := readIncidents(ctx, decoder, *incPath)
		if err != nil {
			log.Error(ctx, "failed to read incident export", logger.Error(err))
			return 1
		}
		report = svc.Weekly(ctx, day, camera, speeding, kpa, rows)

	default:
		log.Error(ctx, "unknown report family", logger.String("report", *family))
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Error(ctx, "failed to encode report", logger.Error(err))
		return 1
	}
	return 0
}

// decodeFile applies a payload decoder to a file. A missing path yields an
// empty stream, so single-source runs need only their own input.
func decodeFile(ctx context.Context, decode func(context.Context, io.Reader) ([]enrich.RawEvent, error), path string) ([]enrich.RawEvent, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return decode(ctx, f)
}

func readAssessments(ctx context.Context, decoder *feed.Decoder, path string) ([]findings.AssessmentRow, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return decoder.AssessmentRows(ctx, f)
}

func readIncidents(ctx context.Context, decoder *feed.Decoder, path string) ([]model.NormalizedEvent, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return decoder.IncidentEvents(ctx, f)
}

// generateFixtures writes one synthetic file per input family, timestamped
// inside the previous reporting week so a weekly run accepts them.
func generateFixtures(ctx context.Context, dir string, now time.Time, loc *time.Location) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}

	start := now.In(loc).AddDate(0, 0, -13)
	gen := testdata.New(start, now.In(loc))

	write := func(name string, fn func(*os.File) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		defer f.Close()
		return fn(f)
	}

	if err := write("camera.json", func(f *os.File) error {
		return gen.WriteCameraPayload(ctx, f, generatedEventCount)
	}); err != nil {
		return err
	}
	if err := write("speeding.json", func(f *os.File) error {
		return gen.WriteSpeedingPayload(ctx, f, generatedEventCount)
	}); err != nil {
		return err
	}
	return write("assessments.csv", func(f *os.File) error {
		return gen.WriteAssessmentCSV(ctx, f, generatedEventCount/2)
	})
}
