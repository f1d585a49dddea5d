package persist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/l1jgo/arena/internal/world"
)

// Creator builds an actor from a roster line; world.Factory implements it.
type Creator interface {
	Create(kindName, name string, x, y int) (*world.Actor, error)
}

// Snapshotter exposes the current member list.
type Snapshotter interface {
	Snapshot() []*world.Actor
}

// WriteRoster writes the actor count on the first line, then one
// "<Kind> <x> <y> <name>" line per actor. Liveness is not stored.
func WriteRoster(w io.Writer, actors []*world.Actor) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(actors))
	for _, a := range actors {
		p := a.Position()
		fmt.Fprintf(bw, "%s %d %d %s\n", a.Kind(), p.X, p.Y, a.Name())
	}
	return bw.Flush()
}

// ReadRoster parses a roster. Lines that do not parse or that the creator
// rejects are skipped and counted; the count header bounds how many entry
// lines are read. Only a missing or malformed header is an error.
//
// The name is everything after the y coordinate, trimmed, so names may
// contain spaces: "Ork 1 2 Grom Hellscream" loads as "Grom Hellscream".
// WriteRoster emits names verbatim, which keeps such names intact across
// a save and load.
func ReadRoster(r io.Reader, c Creator) (actors []*world.Actor, skipped int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	count := -1
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if count < 0 {
			head, _ := cutField(line)
			n, convErr := strconv.Atoi(head)
			if convErr != nil || n < 0 {
				return nil, 0, fmt.Errorf("roster header %q: not a count", head)
			}
			count = n
			actors = make([]*world.Actor, 0, n)
			continue
		}
		if len(actors)+skipped >= count {
			break
		}
		a, lineErr := parseLine(line, c)
		if lineErr != nil {
			skipped++
			continue
		}
		actors = append(actors, a)
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("read roster: %w", err)
	}
	if count < 0 {
		return nil, 0, errors.New("roster is empty")
	}
	return actors, skipped, nil
}

func parseLine(line string, c Creator) (*world.Actor, error) {
	kind, rest := cutField(line)
	xs, rest := cutField(rest)
	ys, name := cutField(rest)
	if kind == "" || xs == "" || ys == "" || name == "" {
		return nil, fmt.Errorf("short line %q", line)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return nil, fmt.Errorf("bad x in %q", line)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return nil, fmt.Errorf("bad y in %q", line)
	}
	return c.Create(kind, name, x, y)
}

// cutField splits off the first whitespace-separated token.
func cutField(s string) (field, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// SaveFile writes src's current members to path, zstd-compressed when the
// path ends in ".zst". The file is replaced atomically; src is only read.
func SaveFile(path string, src Snapshotter) (int, error) {
	actors := src.Snapshot()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".roster-*")
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := writeTo(tmp, actors, compressed(path)); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("save %s: %w", path, err)
	}
	return len(actors), nil
}

func writeTo(w io.Writer, actors []*world.Actor, zst bool) error {
	if !zst {
		return WriteRoster(w, actors)
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := WriteRoster(enc, actors); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// LoadFile reads a roster from path and swaps it into reg. The registry is
// untouched unless the whole file was read.
func LoadFile(path string, reg *world.Registry, c Creator) (loaded, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return 0, 0, fmt.Errorf("load %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	actors, skipped, err := ReadRoster(r, c)
	if err != nil {
		return 0, 0, fmt.Errorf("load %s: %w", path, err)
	}
	if err := reg.Replace(actors); err != nil {
		return 0, 0, fmt.Errorf("load %s: %w", path, err)
	}
	return len(actors), skipped, nil
}
