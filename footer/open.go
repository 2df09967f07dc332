package footer

import (
	"fmt"
	"io"

	"github.com/bpio-project/bpio/buffer"
	"github.com/bpio-project/bpio/catalog"
	"github.com/bpio-project/bpio/comm"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/internal/pool"
	"github.com/bpio-project/bpio/wire"
)

// ReaderAt is the minimal positioned-read capability footer.Open needs;
// satisfied by *os.File and by any in-memory fixture used in tests.
type ReaderAt interface {
	io.ReaderAt
}

// Catalogs is the fully parsed index region of a BP file: everything the
// query surface and planner need, independent of how it reached rank 0.
type Catalogs struct {
	Minifooter wire.Minifooter
	PGs        []catalog.ProcessGroup
	Variables  []catalog.VariableIndexRecord
	Attributes []catalog.AttributeIndexRecord
}

// Open implements §4.3: rank 0 reads the minifooter and the full index
// region and broadcasts both to every rank; every rank (including rank 0)
// then parses the three catalogs from its own copy, so there is no shared
// mutable state once Open returns.
//
// fileSize must be the exact size of the underlying file; r is only read
// directly by rank 0 (every other rank's r may be nil).
func Open(r ReaderAt, fileSize int64, c comm.Communicator) (Catalogs, error) {
	if fileSize < wire.MinifooterSize {
		return Catalogs{}, fmt.Errorf("%w: file too small (%d bytes)", errs.ErrInvalidMinifooter, fileSize)
	}

	var mf wire.Minifooter
	var indexRegion []byte

	if c.Rank() == 0 {
		tail := make([]byte, wire.MinifooterSize)
		if _, err := r.ReadAt(tail, fileSize-wire.MinifooterSize); err != nil {
			return Catalogs{}, errs.Wrapf(errs.ErrFileOpen, "reading minifooter: %v", err)
		}

		parsed, err := wire.ParseMinifooter(tail, fileSize)
		if err != nil {
			return Catalogs{}, errs.Wrap(err)
		}
		mf = parsed

		regionSize := fileSize - int64(mf.PGsIndexOffset)
		indexRegion = pool.GetIndexRegion(int(regionSize))
		if _, err := r.ReadAt(indexRegion, int64(mf.PGsIndexOffset)); err != nil {
			return Catalogs{}, errs.Wrapf(errs.ErrFileOpen, "reading index region: %v", err)
		}
	}

	// Every rank (including rank 0) participates in the broadcast: non-root
	// ranks must allocate their receive buffer before calling Bcast (§4.3
	// step 2). The minifooter itself is small and fixed-size, so it is
	// broadcast as a small encoded header ahead of the index region.
	mfBuf := make([]byte, wire.MinifooterSize)
	if c.Rank() == 0 {
		mfBuf = wire.AppendMinifooter(mfBuf[:0], mf, mf.Engine())
	}
	if err := c.Bcast(mfBuf, 0); err != nil {
		return Catalogs{}, errs.Wrapf(errs.ErrFileOpen, "broadcasting minifooter: %v", err)
	}
	if c.Rank() != 0 {
		parsed, err := wire.ParseMinifooter(mfBuf, fileSize)
		if err != nil {
			return Catalogs{}, errs.Wrap(err)
		}
		mf = parsed
		indexRegion = pool.GetIndexRegion(int(fileSize - int64(mf.PGsIndexOffset)))
	}

	if err := c.Bcast(indexRegion, 0); err != nil {
		return Catalogs{}, errs.Wrapf(errs.ErrFileOpen, "broadcasting index region: %v", err)
	}
	c.Barrier()
	defer pool.PutIndexRegion(indexRegion)

	engine := mf.Engine()
	base := int64(mf.PGsIndexOffset)

	// The index region holds the three sections back to back in file order;
	// a cursor walk through it (rather than three independent offset
	// subtractions) keeps the section boundaries in one place.
	win := buffer.Wrap(indexRegion)

	pgsBody, err := win.Take(int(int64(mf.VarsIndexOffset) - base))
	if err != nil {
		return Catalogs{}, errs.Wrapf(errs.ErrCorruptedFooter, "slicing process group section: %v", err)
	}
	pgs, err := ParseProcessGroups(pgsBody, engine)
	if err != nil {
		return Catalogs{}, errs.Wrapf(errs.ErrCorruptedFooter, "process groups: %v", err)
	}

	varsBody, err := win.Take(int(int64(mf.AttrsIndexOffset) - int64(mf.VarsIndexOffset)))
	if err != nil {
		return Catalogs{}, errs.Wrapf(errs.ErrCorruptedFooter, "slicing variable section: %v", err)
	}
	vars, err := ParseVariables(varsBody, engine)
	if err != nil {
		return Catalogs{}, errs.Wrapf(errs.ErrCorruptedFooter, "variables: %v", err)
	}

	attrsBody, err := win.Take(win.Remaining())
	if err != nil {
		return Catalogs{}, errs.Wrapf(errs.ErrCorruptedFooter, "slicing attribute section: %v", err)
	}
	attrs, err := ParseAttributes(attrsBody, engine)
	if err != nil {
		return Catalogs{}, errs.Wrapf(errs.ErrCorruptedFooter, "attributes: %v", err)
	}

	return Catalogs{Minifooter: mf, PGs: pgs, Variables: vars, Attributes: attrs}, nil
}
