package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/forecastviz/pkg/errors"
	"github.com/matzehuels/forecastviz/pkg/forecast"
)

// File reads datasets from disk. Path is either a single JSON file, served
// for every ticker, or a directory holding one <TICKER>.json per ticker.
type File struct {
	Path string
}

func (File) Name() string { return "file" }

func (f File) Dataset(ctx context.Context, ticker string) (*forecast.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "dataset path %s", f.Path)
		}
		return nil, err
	}

	path := f.Path
	if info.IsDir() {
		if path, err = f.lookup(ticker); err != nil {
			return nil, err
		}
	}

	ds, err := forecast.Load(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "load %s", path)
	}
	if ds.Ticker == "" {
		ds.Ticker = strings.ToUpper(ticker)
	}
	return ds, nil
}

func (f File) lookup(ticker string) (string, error) {
	if err := errors.ValidateTicker(ticker); err != nil {
		return "", err
	}
	for _, name := range []string{strings.ToUpper(ticker) + ".json", ticker + ".json", strings.ToLower(ticker) + ".json"} {
		if err := errors.ValidatePath(name); err != nil {
			return "", err
		}
		p := filepath.Join(f.Path, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeNotFound, "no dataset for %s in %s", ticker, f.Path)
}
