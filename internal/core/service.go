package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/mspdash/internal/logging"
)

// Options configures a Service. Empty fields take the package defaults.
type Options struct {
	Dir             string
	UserFilePattern string
	UserFileSuffix  string
	DeviceFile      string
	OutputPath      string
	Write           WriteOptions
	Rules           *RuleSet
}

// Service runs the load, aggregate and write steps for one data directory.
type Service struct {
	loader     *Loader
	outputPath string
	write      WriteOptions
}

// NewService creates a Service from opts.
func NewService(opts Options) (*Service, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("new service: input directory is required")
	}
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("new service: output path is required")
	}
	if opts.UserFilePattern == "" {
		opts.UserFilePattern = DefaultUserFilePattern
	}
	if opts.DeviceFile == "" {
		opts.DeviceFile = DefaultDeviceFile
	}
	if opts.Write == (WriteOptions{}) {
		opts.Write = DefaultWriteOptions()
	}

	return &Service{
		loader: &Loader{
			Dir:             opts.Dir,
			UserFilePattern: opts.UserFilePattern,
			DeviceFile:      opts.DeviceFile,
			Mapper:          NewMapper(opts.Rules, opts.UserFileSuffix),
		},
		outputPath: opts.OutputPath,
		write:      opts.Write,
	}, nil
}

// Build loads every input and returns the aggregate without writing it.
func (s *Service) Build(ctx context.Context) (Aggregate, Summary, error) {
	logger := logging.FromContext(ctx)
	logger.Info("reading csv files", "dir", s.loader.Dir)

	users, files, err := s.loader.LoadUsers(ctx)
	if err != nil {
		return Aggregate{}, Summary{}, fmt.Errorf("load users: %w", err)
	}

	devices, found, err := s.loader.LoadDevices(ctx)
	if err != nil {
		return Aggregate{}, Summary{}, fmt.Errorf("load devices: %w", err)
	}

	agg := BuildAggregate(users, devices)

	summary := Summary{
		RunID:           logging.RunIDFromContext(ctx),
		SourceDir:       s.loader.Dir,
		OutputPath:      s.outputPath,
		UserFiles:       len(files),
		DeviceFileFound: found,
		Clients:         agg.TotalClients,
		Users:           agg.TotalUsersLicensed,
		Devices:         agg.TotalDevices,
	}
	return agg, summary, nil
}

// Run builds the aggregate and overwrites the output file with it.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	agg, summary, err := s.Build(ctx)
	if err != nil {
		return Summary{}, err
	}

	if err := WriteScriptFile(s.outputPath, agg, s.write); err != nil {
		return Summary{}, err
	}

	logger.Info("summary",
		"clients", summary.Clients,
		"users", summary.Users,
		"devices", summary.Devices,
		"user_files", summary.UserFiles,
		"device_file_found", summary.DeviceFileFound,
	)
	logger.Info("data written", "path", s.outputPath, "duration", time.Since(start))

	return summary, nil
}
