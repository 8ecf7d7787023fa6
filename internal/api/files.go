package api

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// FileMapper turns a file of a fileset into one download list line
type FileMapper func(fs models.Fileset, f models.File) string

// LocalPath maps a file to a file:// URL of its path on the server host
func LocalPath(fs models.Fileset, f models.File) string {
	return "file://" + f.Path(fs)
}

// DownloadURL returns a mapper producing <base>/marv/download/<md5> URLs
func DownloadURL(base string) FileMapper {
	return func(_ models.Fileset, f models.File) string {
		return base + "/marv/download/" + url.PathEscape(f.MD5)
	}
}

// FilesetFiles is a fileset together with its files
type FilesetFiles struct {
	Fileset models.Fileset
	Files   []models.File
}

// FetchFiles loads the filesets and their files concurrently, keeping the order of ids
func (c *Client) FetchFiles(ctx context.Context, ids []models.ID) ([]FilesetFiles, error) {
	out := make([]FilesetFiles, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			fs, err := c.Fileset(gCtx, id)
			if err != nil {
				return fmt.Errorf("fileset %s: %w", id, err)
			}
			files, err := c.Files(gCtx, id)
			if err != nil {
				return fmt.Errorf("files of fileset %s: %w", id, err)
			}
			out[i] = FilesetFiles{Fileset: *fs, Files: files}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FileLists returns one line per file of the given filesets, in selection order
func (c *Client) FileLists(ctx context.Context, ids []models.ID, mapper FileMapper) ([]string, error) {
	sets, err := c.FetchFiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, set := range sets {
		for _, f := range set.Files {
			lines = append(lines, mapper(set.Fileset, f))
		}
	}
	return lines, nil
}
