package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/mspdash/internal/logging"
)

// Default input names used when Options leaves them empty.
const (
	DefaultUserFilePattern = "* User List Feb.csv"
	DefaultDeviceFile      = "cwa-computers.csv"
)

// Loader discovers and reads the CSV exports in one directory.
type Loader struct {
	Dir             string
	UserFilePattern string
	DeviceFile      string
	Mapper          *Mapper
}

// UserFiles returns the base names of user list files in the directory,
// sorted by name. A missing directory yields no files.
// Hidden files only match a pattern that itself starts with a dot.
func (l *Loader) UserFiles(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.FromContext(ctx).Warn("data directory not found", "dir", l.Dir)
			return nil, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", l.Dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(l.UserFilePattern, ".") {
			continue
		}

		ok, err := filepath.Match(l.UserFilePattern, name)
		if err != nil {
			return nil, fmt.Errorf("user file pattern %q: %w", l.UserFilePattern, err)
		}
		if !ok || l.isDir(entry) {
			continue
		}

		files = append(files, name)
	}

	return files, nil
}

func (l *Loader) isDir(entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(l.Dir, entry.Name()))
	return err == nil && info.IsDir()
}

// LoadUsers reads every user list file and returns the licensed users in
// file order, along with the files read.
func (l *Loader) LoadUsers(ctx context.Context) ([]UserRecord, []string, error) {
	files, err := l.UserFiles(ctx)
	if err != nil {
		return nil, nil, err
	}

	users := []UserRecord{}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("loading users cancelled before %s: %w", name, err)
		}

		kept := 0
		rows, err := readCSVFile(ctx, filepath.Join(l.Dir, name), func(row Row) {
			if u, ok := l.Mapper.MapUserRow(row, name); ok {
				users = append(users, u)
				kept++
			}
		})
		if err != nil {
			return nil, nil, err
		}

		logging.WithFields(ctx, "file", name).Debug("user list loaded",
			"rows", rows,
			"licensed", kept,
		)
	}

	return users, files, nil
}

// LoadDevices reads the device export. found is false when the file does
// not exist, which is not an error.
func (l *Loader) LoadDevices(ctx context.Context) (devices []DeviceRecord, found bool, err error) {
	path := filepath.Join(l.Dir, l.DeviceFile)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.FromContext(ctx).Info("device file not found, continuing without devices", "file", l.DeviceFile)
			return []DeviceRecord{}, false, nil
		}
		return nil, false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		logging.FromContext(ctx).Warn("device file is a directory, ignoring", "path", path)
		return []DeviceRecord{}, false, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("loading devices cancelled: %w", err)
	}

	devices = []DeviceRecord{}
	rows, err := readCSVFile(ctx, path, func(row Row) {
		if d, ok := l.Mapper.MapDeviceRow(row); ok {
			devices = append(devices, d)
		}
	})
	if err != nil {
		return nil, false, err
	}

	logging.WithFields(ctx, "file", l.DeviceFile).Debug("device list loaded",
		"rows", rows,
		"devices", len(devices),
	)

	return devices, true, nil
}

// readCSVFile opens path, streams every data row to fn and closes the file.
// It returns the number of data rows seen. A file with no header row
// yields zero rows.
func readCSVFile(ctx context.Context, path string, fn func(Row)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, counter := WrapForReading(f)
	rows, err := readCSV(src, fn)
	if err != nil {
		return rows, classifyReadError(filepath.Base(path), err)
	}

	logging.WithFields(ctx, "file", filepath.Base(path)).Debug("csv read",
		"bytes", counter.BytesRead,
	)

	return rows, nil
}

func readCSV(src io.Reader, fn func(Row)) (int, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	header = append([]string(nil), header...)

	rows := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows++
		fn(MakeRow(header, record))
	}
}

func classifyReadError(name string, err error) error {
	if errors.Is(err, ErrInvalidEncoding) {
		return fmt.Errorf("%s: %w", name, err)
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w: %v", name, ErrInvalidCSV, pe)
	}
	return fmt.Errorf("reading %s: %w", name, err)
}
