package dataset

import (
	"bytes"
	"context"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

var (
	apiClient = resty.New().
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
)

func SetTimeout(d time.Duration) {
	apiClient.SetTimeout(d)
}

func cacheKey(url string) []byte {
	return []byte("dataset-" + url)
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch downloads url, answering from db when it was fetched before. db may be
// nil, in which case nothing is cached.
func Fetch(ctx context.Context, db *leveldb.DB, url string) ([]byte, error) {
	if db != nil {
		if data, err := db.Get(cacheKey(url), nil); err == nil {
			return data, nil
		} else if !errors.Is(err, leveldb.ErrNotFound) {
			return nil, errors.Wrapf(err, "failed to read cache for %s", url)
		}
	}

	res, err := apiClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", url)
	}
	if res.IsError() {
		return nil, errors.Errorf("failed to fetch %s: %s", url, res.Status())
	}

	data := res.Body()
	if db != nil {
		if err := db.Put(cacheKey(url), data, nil); err != nil {
			return nil, errors.Wrapf(err, "failed to cache %s", url)
		}
	}
	return data, nil
}

// Load reads a labelled CSV dataset from a local path or an http(s) URL.
func Load(ctx context.Context, db *leveldb.DB, source string) (Set, error) {
	var data []byte
	var err error
	if isURL(source) {
		data, err = Fetch(ctx, db, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return Set{}, err
	}

	s, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return Set{}, errors.Wrap(err, source)
	}
	return s, nil
}
