// Package bpio is a parallel I/O library for reading ADIOS BP-format
// structured scientific data files: footer-driven catalogs, a query
// surface over variables and attributes, and a hyperslab read planner
// that extracts exactly the blocks a request touches.
//
// Open returns a *File; OpenGroup (or OpenGroupByID) returns a *Group
// scoped to one named group's variables, attributes and process groups,
// mirroring the reference reader's file-handle-then-group-handle split
// (§7).
package bpio

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bpio-project/bpio/attr"
	"github.com/bpio-project/bpio/catalog"
	"github.com/bpio-project/bpio/codec"
	"github.com/bpio-project/bpio/comm"
	"github.com/bpio-project/bpio/dims"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/footer"
	"github.com/bpio-project/bpio/internal/collision"
	"github.com/bpio-project/bpio/internal/options"
	"github.com/bpio-project/bpio/planner"
	"github.com/bpio-project/bpio/transform"
	"github.com/bpio-project/bpio/wire"
	"github.com/rs/zerolog"
)

// config holds every bpio.Option's target.
type config struct {
	communicator comm.Communicator
	logger       zerolog.Logger
	callerOrder  dims.Order
	transforms   *transform.Registry
}

func defaultConfig() *config {
	return &config{
		communicator: comm.SingleProcess{},
		logger:       zerolog.Nop(),
		callerOrder:  dims.RowMajor,
		transforms:   transform.NewRegistry(),
	}
}

// Option configures a File at Open time.
type Option = options.Option[*config]

// WithCommunicator supplies the collective-broadcast transport Open uses
// to read and distribute the footer (§4.3); the default is a single-
// process stand-in.
func WithCommunicator(c comm.Communicator) Option {
	return options.NoError[*config](func(cfg *config) { cfg.communicator = c })
}

// WithLogger supplies a zerolog.Logger for bpio's internal diagnostics
// (file open, dimension-materialization warnings); Close logs nothing.
func WithLogger(l zerolog.Logger) Option {
	return options.NoError[*config](func(cfg *config) { cfg.logger = l })
}

// WithArrayOrder sets the array-order convention Inquire and Read present
// shapes and hyperslabs in; the default is row-major (C order). Variables
// are reoriented from the file's own declared order as needed (§4.6).
func WithArrayOrder(o dims.Order) Option {
	return options.NoError[*config](func(cfg *config) { cfg.callerOrder = o })
}

// WithTransformRegistry overrides the block-transform codec registry
// (§4.1); the default registers bpio's built-in none/zstd/lz4/s2 codecs.
func WithTransformRegistry(r *transform.Registry) Option {
	return options.NoError[*config](func(cfg *config) { cfg.transforms = r })
}

// groupInfo is the per-group slice of the file-wide catalogs: this
// group's own process groups plus name-indexed variables and attributes.
type groupInfo struct {
	name      string
	pgs       []catalog.ProcessGroup
	vars      *catalog.NameIndex[catalog.VariableIndexRecord]
	attrs     *catalog.NameIndex[catalog.AttributeIndexRecord]
	fileOrder dims.Order
	tidxStart int
	tidxStop  int
}

// File is an opened BP file: the parsed footer catalogs plus the
// positioned-read handle every Group's planner.Read call shares.
type File struct {
	cfg      *config
	f        *os.File
	size     int64
	catalogs footer.Catalogs

	groupOrder []string
	groups     map[string]*groupInfo

	mu     sync.Mutex
	closed bool
}

// Open implements §4.2-§4.3: opens path, reads and (if a multi-rank
// Communicator is supplied) broadcasts the footer, and parses every
// catalog before returning.
func Open(path string, opts ...Option) (*File, error) {
	errs.ClearLast()

	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, errs.Wrap(err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrFileOpen, "%v", err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errs.Wrapf(errs.ErrFileOpen, "%v", err)
	}

	catalogs, err := footer.Open(f, st.Size(), cfg.communicator)
	if err != nil {
		f.Close()
		return nil, errs.Wrap(err)
	}

	file := &File{cfg: cfg, f: f, size: st.Size(), catalogs: catalogs}
	if err := file.index(); err != nil {
		f.Close()
		return nil, errs.Wrap(err)
	}

	cfg.logger.Debug().
		Str("path", path).
		Int("groups", len(file.groupOrder)).
		Int("variables", len(catalogs.Variables)).
		Int("attributes", len(catalogs.Attributes)).
		Msg("bpio: opened file")

	return file, nil
}

// index builds the per-group NameIndex structures from the flat catalogs
// footer.Open returned, assigning each group's attributes a sequential id
// in discovery order (the wire format has no attribute id of its own,
// unlike variables, which carry VarID directly; see DESIGN.md).
func (file *File) index() error {
	file.groups = make(map[string]*groupInfo)

	groupOf := func(name string) *groupInfo {
		g, ok := file.groups[name]
		if !ok {
			g = &groupInfo{
				name:  name,
				vars:  catalog.NewNameIndex[catalog.VariableIndexRecord](),
				attrs: catalog.NewNameIndex[catalog.AttributeIndexRecord](),
			}
			file.groups[name] = g
			file.groupOrder = append(file.groupOrder, name)
		}

		return g
	}

	varTrackers := make(map[string]*collision.Tracker)
	attrTrackers := make(map[string]*collision.Tracker)

	for _, pg := range file.catalogs.PGs {
		g := groupOf(pg.Name)
		g.pgs = append(g.pgs, pg)
		g.fileOrder = dims.RowMajor
		if pg.IsColumnMajor {
			g.fileOrder = dims.ColumnMajor
		}

		if len(g.pgs) == 1 || pg.TimeStep < g.tidxStart {
			g.tidxStart = pg.TimeStep
		}
		if pg.TimeStep > g.tidxStop {
			g.tidxStop = pg.TimeStep
		}
	}

	for _, v := range file.catalogs.Variables {
		g := groupOf(v.GroupName)

		tracker := varTrackers[v.GroupName]
		if tracker == nil {
			tracker = collision.NewTracker()
			varTrackers[v.GroupName] = tracker
		}

		if err := g.vars.Add(v.VarID, v.VarPath, v, tracker); err != nil {
			return fmt.Errorf("indexing variable %q: %w", v.VarPath, err)
		}
	}

	attrSeq := make(map[string]uint32)
	for _, a := range file.catalogs.Attributes {
		g := groupOf(a.GroupName)

		tracker := attrTrackers[a.GroupName]
		if tracker == nil {
			tracker = collision.NewTracker()
			attrTrackers[a.GroupName] = tracker
		}

		id := attrSeq[a.GroupName]
		attrSeq[a.GroupName] = id + 1

		if err := g.attrs.Add(id, a.AttrPath, a, tracker); err != nil {
			return fmt.Errorf("indexing attribute %q: %w", a.AttrPath, err)
		}
	}

	return nil
}

// Close releases the underlying file handle. Close is idempotent: a
// second call returns nil without error, matching the reference reader's
// adios_read_close semantics.
func (file *File) Close() error {
	file.mu.Lock()
	defer file.mu.Unlock()

	if file.closed {
		return nil
	}
	file.closed = true

	return file.f.Close()
}

// GroupNames returns every group's name, in file discovery order.
func (file *File) GroupNames() []string {
	return append([]string(nil), file.groupOrder...)
}

// Describe returns a short human-readable summary of the file's groups,
// mirroring the reference reader's common_read_print_fileinfo.
func (file *File) Describe() string {
	var b strings.Builder

	fmt.Fprintf(&b, "file: %d bytes, %d group(s)\n", file.size, len(file.groupOrder))
	for _, name := range file.groupOrder {
		g := file.groups[name]
		fmt.Fprintf(&b, "  %s: %d variable(s), %d attribute(s), %d process group(s)\n",
			name, g.vars.Len(), g.attrs.Len(), len(g.pgs))
	}

	return b.String()
}

// Group is a handle onto one named group's variables, attributes and
// process groups within an opened file.
type Group struct {
	file   *File
	info   *groupInfo
	closed bool
	mu     sync.Mutex
}

// OpenGroup returns a handle for the group named name.
func (file *File) OpenGroup(name string) (*Group, error) {
	g, ok := file.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidGroup, name)
	}

	return &Group{file: file, info: g}, nil
}

// OpenGroupByID returns a handle for the id-th group, in discovery order.
func (file *File) OpenGroupByID(id int) (*Group, error) {
	if id < 0 || id >= len(file.groupOrder) {
		return nil, fmt.Errorf("%w: group id %d", errs.ErrInvalidGroupStruct, id)
	}

	return file.OpenGroup(file.groupOrder[id])
}

// Close marks the group handle as no longer usable. A group owns no
// resources of its own (only the file does), so this just guards further
// calls through it.
func (g *Group) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true

	return nil
}

func (g *Group) checkOpen() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return errs.ErrClosed
	}

	return nil
}

// VariableNames returns every variable path known in this group, in
// discovery order.
func (g *Group) VariableNames() []string {
	return g.info.vars.Names()
}

// AttributeNames returns every attribute path known in this group, in
// discovery order.
func (g *Group) AttributeNames() []string {
	return g.info.attrs.Names()
}

// Describe returns a short human-readable summary of the group's
// variables and attributes, mirroring the reference reader's
// common_read_print_groupinfo.
func (g *Group) Describe() string {
	var b strings.Builder

	fmt.Fprintf(&b, "group %s: array order %s, timesteps [%d,%d]\n",
		g.info.name, g.info.fileOrder, g.info.tidxStart, g.info.tidxStop)

	for _, name := range g.info.vars.Names() {
		v, _ := g.info.vars.Find(name)
		fmt.Fprintf(&b, "  var  %-30s %s\n", name, v.Type)
	}
	for _, name := range g.info.attrs.Names() {
		a, _ := g.info.attrs.Find(name)
		fmt.Fprintf(&b, "  attr %-30s %s\n", name, a.Type)
	}

	return b.String()
}

// Inquire implements §4.4: returns the caller-facing description of the
// named variable, in the file's or caller's array order per
// WithArrayOrder, with its scalar value and global min/max if recorded.
func (g *Group) Inquire(name string) (catalog.VarDescriptor, error) {
	errs.ClearLast()

	v, ok := g.info.vars.Find(name)
	if !ok {
		return catalog.VarDescriptor{}, fmt.Errorf("%w: %q", errs.ErrInvalidVarName, name)
	}

	return g.describe(v)
}

// InquireByID implements §4.4 addressed by variable id.
func (g *Group) InquireByID(id uint32) (catalog.VarDescriptor, error) {
	errs.ClearLast()

	v, ok := g.info.vars.FindByID(id)
	if !ok {
		return catalog.VarDescriptor{}, fmt.Errorf("%w: %d", errs.ErrInvalidVarID, id)
	}

	return g.describe(v)
}

func (g *Group) describe(v catalog.VariableIndexRecord) (catalog.VarDescriptor, error) {
	if err := g.checkOpen(); err != nil {
		return catalog.VarDescriptor{}, err
	}

	if len(v.Characteristics) == 0 {
		return catalog.VarDescriptor{}, fmt.Errorf("%w: variable %q has no characteristics", errs.ErrCorruptedVariable, v.VarName)
	}

	rep := v.Characteristics[0].Dims
	materialized := dims.Materialize(rep, g.info.fileOrder, g.info.tidxStart, g.info.tidxStop, len(v.Characteristics))
	oriented := dims.Reorder(materialized, g.info.fileOrder, g.file.cfg.callerOrder)

	for _, w := range oriented.Warnings {
		g.file.cfg.logger.Warn().Str("variable", v.VarName).Msg(w)
	}

	gmin, gmax := globalMinMax(v)

	// Scalars carry their value inline on every characteristic. Arrays
	// don't: §4.4 has them report the folded global min as a stand-in
	// single value, the same way the reference reader's INQ_VAR leaves
	// array values to be read explicitly and only surfaces gmin/gmax.
	value := v.Characteristics[0].Value
	if oriented.NDim > 0 && len(value) == 0 {
		value = gmin
	}

	desc := catalog.VarDescriptor{
		VarID:    v.VarID,
		VarName:  v.VarName,
		Type:     v.Type,
		NDim:     oriented.NDim,
		Dims:     oriented.Dims,
		TimeDim:  oriented.TimeDim,
		Value:    value,
		GMin:     gmin,
		GMax:     gmax,
		Warnings: oriented.Warnings,
	}

	return desc, nil
}

// globalMinMax folds every block's recorded min/max into one pair using
// codec.LessThan, matching the reference reader's running-min/max
// accumulation across writers and time steps (§4.4).
func globalMinMax(v catalog.VariableIndexRecord) (min, max []byte) {
	for _, ch := range v.Characteristics {
		if len(ch.Min) > 0 {
			if min == nil {
				min = ch.Min
			} else if less, err := codec.LessThan(v.Type, ch.Min, min); err == nil && less {
				min = ch.Min
			}
		}

		if len(ch.Max) > 0 {
			if max == nil {
				max = ch.Max
			} else if less, err := codec.LessThan(v.Type, max, ch.Max); err == nil && less {
				max = ch.Max
			}
		}
	}

	return min, max
}

// Read implements §4.8: reads the hyperslab [start, start+count) of the
// named variable into dest, in the caller's array order, returning the
// number of bytes written.
func (g *Group) Read(name string, start, count []uint64, dest []byte) (int, error) {
	errs.ClearLast()

	v, ok := g.info.vars.Find(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidVarName, name)
	}

	return g.read(v, start, count, dest)
}

// ReadByID implements §4.8 addressed by variable id.
func (g *Group) ReadByID(id uint32, start, count []uint64, dest []byte) (int, error) {
	errs.ClearLast()

	v, ok := g.info.vars.FindByID(id)
	if !ok {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidVarID, id)
	}

	return g.read(v, start, count, dest)
}

func (g *Group) read(v catalog.VariableIndexRecord, start, count []uint64, dest []byte) (int, error) {
	if err := g.checkOpen(); err != nil {
		return 0, err
	}

	req := planner.Request{
		Var:              v,
		PGs:              g.info.pgs,
		Source:           g.file.f,
		Engine:           g.file.catalogs.Minifooter.Engine(),
		FileOrder:        g.info.fileOrder,
		CallerOrder:      g.file.cfg.callerOrder,
		TidxStart:        g.info.tidxStart,
		TidxStop:         g.info.tidxStop,
		ChangeEndianness: g.file.catalogs.Minifooter.ChangeEndianness,
	}

	n, err := planner.Read(req, start, count, dest)
	if err != nil {
		return n, errs.Wrap(err)
	}

	return n, nil
}

// variableLookup adapts a Group's variable index to attr.VariableLookup.
type variableLookup struct{ g *Group }

func (l variableLookup) FindVariableByIDAndPath(id uint32, path string) (catalog.VariableIndexRecord, bool) {
	v, ok := l.g.info.vars.FindByID(id)
	if !ok || v.VarPath != path {
		return catalog.VariableIndexRecord{}, false
	}

	return v, true
}

func (l variableLookup) FindVariableByID(id uint32) (catalog.VariableIndexRecord, bool) {
	return l.g.info.vars.FindByID(id)
}

// GetAttribute implements §4.7 addressed by name.
func (g *Group) GetAttribute(name string) (wire.TypeTag, int, []byte, error) {
	errs.ClearLast()

	a, ok := g.info.attrs.Find(name)
	if !ok {
		return wire.TypeUnknown, 0, nil, fmt.Errorf("%w: %q", errs.ErrInvalidAttrName, name)
	}

	return g.resolveAttribute(a)
}

// GetAttributeByID implements §4.7 addressed by the sequential id bpio
// assigned at open time (see index's doc comment).
func (g *Group) GetAttributeByID(id uint32) (wire.TypeTag, int, []byte, error) {
	errs.ClearLast()

	a, ok := g.info.attrs.FindByID(id)
	if !ok {
		return wire.TypeUnknown, 0, nil, fmt.Errorf("%w: %d", errs.ErrInvalidAttrID, id)
	}

	return g.resolveAttribute(a)
}

func (g *Group) resolveAttribute(a catalog.AttributeIndexRecord) (wire.TypeTag, int, []byte, error) {
	if err := g.checkOpen(); err != nil {
		return wire.TypeUnknown, 0, nil, err
	}

	columnMajor := g.info.fileOrder == dims.ColumnMajor

	tag, size, value, err := attr.Resolve(a, variableLookup{g: g}, columnMajor)
	if err != nil {
		return wire.TypeUnknown, 0, nil, errs.Wrap(err)
	}

	return tag, size, value, nil
}
