package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/clk-66/mrfxp/internal/protocol"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrSectionExists = errors.New("section already exists")
	ErrEmptyName     = errors.New("name is required")
	ErrBadCiphertext = errors.New("cannot open site password")
)

const nonceSize = 24

// AddSiteInput describes a new FTP site.
type AddSiteInput struct {
	Name     string
	Hostname string
	Port     int
	TLS      bool
	Username string
	Password string
}

// SectionPath is the remote directory a site uses for a section.
type SectionPath struct {
	SectionID   int    `json:"SectionId"`
	SectionName string `json:"SectionName"`
	Path        string `json:"Path"`
}

// Store persists sites and sections. Site passwords are sealed with
// secretbox under a key derived from the configured secret.
type Store struct {
	db  *sql.DB
	key [32]byte
}

func New(db *sql.DB, secret string) *Store {
	return &Store{db: db, key: sha256.Sum256([]byte(secret))}
}

// ---- Sites ---------------------------------------------------------------

// ListSites returns every site with its password opened.
func (s *Store) ListSites(ctx context.Context) ([]protocol.Site, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hostname, port, tls, username, password
		FROM sites
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := []protocol.Site{}
	for rows.Next() {
		var site protocol.Site
		var sealed []byte
		if err := rows.Scan(&site.ID, &site.Name, &site.Hostname, &site.Port, &site.TLS, &site.Username, &sealed); err != nil {
			return nil, err
		}
		password, err := s.open(sealed)
		if err != nil {
			return nil, fmt.Errorf("site %d: %w", site.ID, err)
		}
		site.Password = password
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// ListMaskedSites returns every site with its password replaced by
// protocol.MaskedPassword. This is the only form sent to dashboards.
func (s *Store) ListMaskedSites(ctx context.Context) ([]protocol.Site, error) {
	sites, err := s.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sites {
		sites[i].Password = protocol.MaskedPassword
	}
	return sites, nil
}

// AddSite stores a new site and returns it with its id.
func (s *Store) AddSite(ctx context.Context, in AddSiteInput) (*protocol.Site, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Hostname) == "" {
		return nil, ErrEmptyName
	}
	if in.Port == 0 {
		in.Port = 21
	}
	sealed, err := s.seal(in.Password)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sites (name, hostname, port, tls, username, password)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.Name, in.Hostname, in.Port, in.TLS, in.Username, sealed)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &protocol.Site{
		ID:       int(id),
		Name:     in.Name,
		Hostname: in.Hostname,
		Port:     in.Port,
		TLS:      in.TLS,
		Username: in.Username,
		Password: in.Password,
	}, nil
}

// ---- Sections ------------------------------------------------------------

// ListSections returns every section in creation order.
func (s *Store) ListSections(ctx context.Context) ([]protocol.Section, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM sections ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []protocol.Section{}
	for rows.Next() {
		var sec protocol.Section
		if err := rows.Scan(&sec.ID, &sec.Name); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// AddSection creates a section. Names are trimmed and must be unique.
func (s *Store) AddSection(ctx context.Context, name string) (*protocol.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO sections (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueConstraint(err) {
			return nil, ErrSectionExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &protocol.Section{ID: int(id), Name: name}, nil
}

// SetSectionPath records the remote directory siteID uses for sectionID.
func (s *Store) SetSectionPath(ctx context.Context, siteID, sectionID int, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_sections (site_id, section_id, path) VALUES (?, ?, ?)
		ON CONFLICT (site_id, section_id) DO UPDATE SET path = excluded.path
	`, siteID, sectionID, path)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// SectionPaths lists every section with the path siteID uses for it; the
// path is empty when none was set.
func (s *Store) SectionPaths(ctx context.Context, siteID int) ([]SectionPath, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sec.id, sec.name, COALESCE(ss.path, '')
		FROM sections sec
		LEFT JOIN site_sections ss ON ss.section_id = sec.id AND ss.site_id = ?
		ORDER BY sec.id ASC
	`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := []SectionPath{}
	for rows.Next() {
		var p SectionPath
		if err := rows.Scan(&p.SectionID, &p.SectionName, &p.Path); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// ---- Helpers -------------------------------------------------------------

func (s *Store) seal(plain string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key), nil
}

func (s *Store) open(sealed []byte) (string, error) {
	if len(sealed) < nonceSize {
		return "", ErrBadCiphertext
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrBadCiphertext
	}
	return string(plain), nil
}

func isUniqueConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
