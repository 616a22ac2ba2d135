package cache

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tahirfruitchaat/pos-api/models"
)

// Store mirrors the catalog, sale history, and taker roster into JSON
// snapshot files. The snapshots are the offline fallback: when both the
// database and the upstream are unavailable at boot they seed the stores,
// and they are rewritten after every mutation.
type Store struct {
	dir string
}

const (
	productsFile = "products.json"
	salesFile    = "sales.json"
	takersFile   = "order_takers.json"
)

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) SnapshotProducts(products []models.Product) error {
	return s.write(productsFile, products)
}

func (s *Store) SnapshotSales(sales []models.Sale) error {
	return s.write(salesFile, sales)
}

func (s *Store) SnapshotOrderTakers(takers []models.OrderTaker) error {
	return s.write(takersFile, takers)
}

func (s *Store) LoadProducts() ([]models.Product, error) {
	var products []models.Product
	err := s.read(productsFile, &products)
	return products, err
}

func (s *Store) LoadSales() ([]models.Sale, error) {
	var sales []models.Sale
	err := s.read(salesFile, &sales)
	return sales, err
}

func (s *Store) LoadOrderTakers() ([]models.OrderTaker, error) {
	var takers []models.OrderTaker
	err := s.read(takersFile, &takers)
	return takers, err
}

// write replaces a snapshot atomically via temp file + rename, so a crash
// mid-write never leaves a truncated snapshot behind.
func (s *Store) write(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(s.dir, name))
}

func (s *Store) read(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// Archive copies the current snapshots into a timestamped folder under
// <dir>/archive. Old archives beyond the retention window are removed.
func (s *Store) Archive(retention time.Duration) error {
	archiveRoot := filepath.Join(s.dir, "archive")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	destDir := filepath.Join(archiveRoot, timestamp)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	for _, name := range []string{productsFile, salesFile, takersFile} {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		if err := os.WriteFile(filepath.Join(destDir, name), data, 0644); err != nil {
			return err
		}
	}

	s.cleanupOldArchives(archiveRoot, retention)
	return nil
}

func (s *Store) cleanupOldArchives(archiveRoot string, retention time.Duration) {
	entries, err := os.ReadDir(archiveRoot)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(filepath.Join(archiveRoot, entry.Name())); err != nil {
				log.Printf("❌ Failed to remove old archive %s: %v", entry.Name(), err)
			}
		}
	}
}
