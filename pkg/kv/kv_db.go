// Package kv caches precomputed cluster views in badger, one entry per zoom level.
package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/roadsim/pkg/engine/clustering"
)

var (
	ErrClusterViewNotFound = errors.New("cluster view not found")
)

const clusterViewPrefix = "zoom_cluster:"

type KVDB struct {
	db *badger.DB
}

func NewKVDB(db *badger.DB) *KVDB {
	return &KVDB{db}
}

// OpenInMemory opens a badger instance that never touches disk.
func OpenInMemory() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func clusterViewKey(zoom float64) []byte {
	return []byte(clusterViewPrefix + strconv.FormatFloat(zoom, 'f', -1, 64))
}

// SaveClusterViews writes every view in one write batch, replacing views already stored for the same zoom.
func (k *KVDB) SaveClusterViews(ctx context.Context, views map[float64]clustering.ClusterView) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for zoom, view := range views {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		val, err := encodeClusterView(view)
		if err != nil {
			return fmt.Errorf("encode cluster view for zoom %v: %w", zoom, err)
		}
		if err := batch.Set(clusterViewKey(zoom), val); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		slog.Error("error saving cluster views", "error", err)
		return err
	}
	slog.Debug("saved cluster views", "count", len(views))
	return nil
}

func (k *KVDB) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

func (k *KVDB) GetClusterView(zoom float64) (clustering.ClusterView, error) {
	val, err := k.get(clusterViewKey(zoom))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return clustering.ClusterView{}, fmt.Errorf("zoom %v: %w", zoom, ErrClusterViewNotFound)
	}
	if err != nil {
		return clustering.ClusterView{}, err
	}
	return decodeClusterView(val)
}

// ZoomLevels returns the zoom levels with a stored view, ascending.
func (k *KVDB) ZoomLevels() ([]float64, error) {
	levels := make([]float64, 0)
	err := k.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(clusterViewPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			raw := strings.TrimPrefix(string(it.Item().Key()), clusterViewPrefix)
			zoom, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return err
			}
			levels = append(levels, zoom)
		}
		return nil
	})
	sort.Float64s(levels)
	return levels, err
}

func (k *KVDB) Close() error {
	return k.db.Close()
}
