// Package spec defines the declarative input contract of the layout engine:
// the dataset, axis specifications, series specifications, and chart-wide
// options supplied by the configuration layer.
//
// The engine never introspects a UI tree or merges implicit defaults at
// read time. Callers build explicit specification records; every option has
// a stated default applied once by SetDefaults, and Validate surfaces
// configuration contract violations loudly before any computation runs.
package spec

import (
	"strings"

	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// =============================================================================
// Records and Data Keys
// =============================================================================

// Record is one row of the chart dataset.
type Record map[string]any

// DataKey addresses a value inside a Record. Key is a dot-separated field
// path; Fn, when set, is a computed accessor and takes precedence over Key.
// Computed keys participate in category matching exactly like literal ones.
type DataKey struct {
	Key string
	Fn  func(Record) any `json:"-" toml:"-"`
}

// K is a shorthand constructor for a literal data key.
func K(key string) DataKey { return DataKey{Key: key} }

// IsZero reports whether the key addresses nothing.
func (k DataKey) IsZero() bool { return k.Key == "" && k.Fn == nil }

// Get extracts the addressed value from r. Missing fields yield nil.
func (k DataKey) Get(r Record) any {
	if k.Fn != nil {
		return k.Fn(r)
	}
	if k.Key == "" || r == nil {
		return nil
	}
	if !strings.Contains(k.Key, ".") {
		return r[k.Key]
	}
	var cur any = map[string]any(r)
	for _, part := range strings.Split(k.Key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

// String returns the literal key, or "fn()" for computed accessors.
func (k DataKey) String() string {
	if k.Fn != nil && k.Key == "" {
		return "fn()"
	}
	return k.Key
}

// MarshalText serializes the literal key for TOML/JSON configs.
func (k DataKey) MarshalText() ([]byte, error) { return []byte(k.Key), nil }

// UnmarshalText parses a literal key from TOML/JSON configs.
func (k *DataKey) UnmarshalText(text []byte) error {
	k.Key = string(text)
	return nil
}

// Number coerces a record value to float64. The second return reports
// whether the value was numeric.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// =============================================================================
// Axis Specifications
// =============================================================================

// AxisType distinguishes numeric interpolation from discrete bands.
type AxisType string

// Supported axis types.
const (
	AxisContinuous AxisType = "continuous"
	AxisCategory   AxisType = "category"
)

// Dimension is the directional role an axis plays in the layout.
type Dimension string

// Supported dimensions.
const (
	DimX      Dimension = "x"
	DimY      Dimension = "y"
	DimAngle  Dimension = "angle"
	DimRadius Dimension = "radius"
)

// Orientation is the side of the plot area an axis is drawn on.
type Orientation string

// Supported orientations.
const (
	OrientTop    Orientation = "top"
	OrientBottom Orientation = "bottom"
	OrientLeft   Orientation = "left"
	OrientRight  Orientation = "right"
)

// Bound is one endpoint of a user-supplied numeric domain. Auto bounds
// defer to the data extent, allowing partial overrides such as a fixed
// lower bound with an automatic upper bound.
type Bound struct {
	Auto  bool    `json:"auto,omitempty" toml:"auto,omitempty"`
	Value float64 `json:"value,omitempty" toml:"value,omitempty"`
}

// Fixed creates a non-auto bound.
func Fixed(v float64) Bound { return Bound{Value: v} }

// Auto creates an automatic bound.
func Auto() Bound { return Bound{Auto: true} }

// DomainSpec is an explicit numeric domain override.
type DomainSpec struct {
	Min Bound `json:"min" toml:"min"`
	Max Bound `json:"max" toml:"max"`
}

// IsFullyFixed reports whether both bounds are explicit.
func (d *DomainSpec) IsFullyFixed() bool {
	return d != nil && !d.Min.Auto && !d.Max.Auto
}

// Default axis thickness in pixels, by dimension.
const (
	DefaultXAxisSize = 30.0
	DefaultYAxisSize = 60.0
)

// DefaultTickCount is the target tick count for continuous axes.
const DefaultTickCount = 5

// AxisSpec describes one axis.
type AxisSpec struct {
	ID   string    `json:"id" toml:"id"`
	Dim  Dimension `json:"dim" toml:"dim"`
	Type AxisType  `json:"type,omitempty" toml:"type,omitempty"`

	// DataKey extracts the axis value from each record. Category axes
	// without a data key fall back to a sequential index domain.
	DataKey DataKey `json:"data_key,omitempty" toml:"data_key,omitempty"`

	// Domain is an explicit override; nil derives the domain from data.
	Domain *DomainSpec `json:"domain,omitempty" toml:"domain,omitempty"`

	// AllowDataOverflow adopts an explicit domain directly instead of
	// extending it to cover the data. Required short-circuit for large
	// datasets.
	AllowDataOverflow bool `json:"allow_data_overflow,omitempty" toml:"allow_data_overflow,omitempty"`

	// AllowDuplicatedCategory keeps duplicate category values, switching
	// the working domain to a synthetic sequential index range.
	AllowDuplicatedCategory bool `json:"allow_duplicated_category,omitempty" toml:"allow_duplicated_category,omitempty"`

	Orientation Orientation `json:"orientation,omitempty" toml:"orientation,omitempty"`
	Mirror      bool        `json:"mirror,omitempty" toml:"mirror,omitempty"`
	Hide        bool        `json:"hide,omitempty" toml:"hide,omitempty"`

	// Padding applies gap-based range insets on band-flavored axes.
	Padding scale.PaddingPolicy `json:"padding,omitempty" toml:"padding,omitempty"`

	Transform scale.Transform `json:"transform,omitempty" toml:"transform,omitempty"`
	Exponent  float64         `json:"exponent,omitempty" toml:"exponent,omitempty"`
	TickCount int             `json:"tick_count,omitempty" toml:"tick_count,omitempty"`

	// Size is the pixel thickness the axis consumes from the margin on
	// its orientation side. Zero picks the per-dimension default.
	Size float64 `json:"size,omitempty" toml:"size,omitempty"`

	// Implicit marks axes synthesized for dimensions the caller never
	// declared. Implicit axes are hidden and consume no margin.
	Implicit bool `json:"-" toml:"-"`
}

// =============================================================================
// Series Specifications
// =============================================================================

// SeriesKind tags the geometric family of a plotted series.
type SeriesKind string

// Supported series kinds.
const (
	KindBar    SeriesKind = "bar"
	KindLine   SeriesKind = "line"
	KindArea   SeriesKind = "area"
	KindPoint  SeriesKind = "point"
	KindSector SeriesKind = "sector"
)

// IsBarLike reports whether the kind occupies a category band.
func (k SeriesKind) IsBarLike() bool { return k == KindBar }

// SeriesSpec describes one plotted series (graphical item).
type SeriesSpec struct {
	Key  string     `json:"key" toml:"key"`
	Kind SeriesKind `json:"kind" toml:"kind"`

	// Axis references, one per relevant dimension. Empty references bind
	// to the default axis of that dimension.
	XAxisID      string `json:"x_axis_id,omitempty" toml:"x_axis_id,omitempty"`
	YAxisID      string `json:"y_axis_id,omitempty" toml:"y_axis_id,omitempty"`
	AngleAxisID  string `json:"angle_axis_id,omitempty" toml:"angle_axis_id,omitempty"`
	RadiusAxisID string `json:"radius_axis_id,omitempty" toml:"radius_axis_id,omitempty"`

	// DataKey extracts the series value from each record.
	DataKey DataKey `json:"data_key" toml:"data_key"`

	// ErrorKey, when set, extracts a symmetric error delta (number) or an
	// explicit [low, high] pair extending the numeric domain.
	ErrorKey DataKey `json:"error_key,omitempty" toml:"error_key,omitempty"`

	// Data is an optional private data slice overriding the chart-wide
	// dataset for this series.
	Data []Record `json:"data,omitempty" toml:"data,omitempty"`

	StackID string `json:"stack_id,omitempty" toml:"stack_id,omitempty"`
	Hidden  bool   `json:"hidden,omitempty" toml:"hidden,omitempty"`

	// MaxBarSize clamps the positioned bar width. Zero inherits the
	// chart-wide default.
	MaxBarSize float64 `json:"max_bar_size,omitempty" toml:"max_bar_size,omitempty"`
}

// AxisIDFor returns the series' axis reference for the given dimension.
func (s *SeriesSpec) AxisIDFor(dim Dimension) string {
	switch dim {
	case DimX:
		return s.XAxisID
	case DimY:
		return s.YAxisID
	case DimAngle:
		return s.AngleAxisID
	case DimRadius:
		return s.RadiusAxisID
	}
	return ""
}

// =============================================================================
// Reference Annotations
// =============================================================================

// ReferenceSpec is a reference annotation (line, dot, or area) pinned to a
// numeric axis. AlwaysVisible annotations extend the axis domain even when
// they fall outside the current data extent.
type ReferenceSpec struct {
	AxisID        string  `json:"axis_id" toml:"axis_id"`
	Min           float64 `json:"min" toml:"min"`
	Max           float64 `json:"max" toml:"max"`
	AlwaysVisible bool    `json:"always_visible,omitempty" toml:"always_visible,omitempty"`
}

// =============================================================================
// Chart-wide Options
// =============================================================================

// LayoutKind is the chart orientation.
type LayoutKind string

// Supported layouts.
const (
	LayoutHorizontal LayoutKind = "horizontal"
	LayoutVertical   LayoutKind = "vertical"
	LayoutCentric    LayoutKind = "centric"
	LayoutRadial     LayoutKind = "radial"
)

// IsPolar reports whether the layout uses angle/radius dimensions.
func (l LayoutKind) IsPolar() bool {
	return l == LayoutCentric || l == LayoutRadial
}

// Margin is the outer margin of the plot area.
type Margin struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// BrushSpec enables the data-window brush control.
type BrushSpec struct {
	Height float64 `json:"height,omitempty" toml:"height,omitempty"`

	// StartIndex and EndIndex preset the initial window. Nil bounds
	// default to the full range, so an explicit pair of zeros selects
	// the first record only.
	StartIndex *int `json:"start_index,omitempty" toml:"start_index,omitempty"`
	EndIndex   *int `json:"end_index,omitempty" toml:"end_index,omitempty"`
}

// DefaultBrushHeight is the bottom allowance consumed by the brush.
const DefaultBrushHeight = 40.0

// Chart-wide bar positioning defaults.
const (
	DefaultBarGap         = 4.0 // pixels between bars of one category
	DefaultBarCategoryGap = 0.1 // fraction of the band kept as outer gap
	DefaultMaxBarSize     = 0.0 // zero means unlimited
)

// SyncPolicy selects how a receiving chart re-derives its active index
// from a broadcast tooltip state.
type SyncPolicy string

// Supported sync policies.
const (
	SyncByIndex SyncPolicy = "index"
	SyncByValue SyncPolicy = "value"
	SyncCustom  SyncPolicy = "custom"
)

// ChartSpec is the complete declarative description of one chart instance.
type ChartSpec struct {
	Layout LayoutKind `json:"layout,omitempty" toml:"layout,omitempty"`

	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Margin Margin  `json:"margin,omitempty" toml:"margin,omitempty"`

	Data []Record `json:"data,omitempty" toml:"data,omitempty"`

	Axes       []AxisSpec      `json:"axes,omitempty" toml:"axes,omitempty"`
	Series     []SeriesSpec    `json:"series,omitempty" toml:"series,omitempty"`
	References []ReferenceSpec `json:"references,omitempty" toml:"references,omitempty"`

	// StackOffset is the accumulation mode for stacked series:
	// none, expand, wiggle, silhouette, or sign.
	StackOffset string `json:"stack_offset,omitempty" toml:"stack_offset,omitempty"`

	// ReverseStackOrder reverses stack group membership order, not data order.
	ReverseStackOrder bool `json:"reverse_stack_order,omitempty" toml:"reverse_stack_order,omitempty"`

	// BarGap and BarCategoryGap distinguish an explicit zero (bars
	// packed edge to edge, no outer band inset) from an absent field,
	// which takes the chart-wide default.
	BarGap         *float64 `json:"bar_gap,omitempty" toml:"bar_gap,omitempty"`
	BarCategoryGap *float64 `json:"bar_category_gap,omitempty" toml:"bar_category_gap,omitempty"`
	MaxBarSize     float64  `json:"max_bar_size,omitempty" toml:"max_bar_size,omitempty"`

	Brush *BrushSpec `json:"brush,omitempty" toml:"brush,omitempty"`

	SyncID     string     `json:"sync_id,omitempty" toml:"sync_id,omitempty"`
	SyncPolicy SyncPolicy `json:"sync_policy,omitempty" toml:"sync_policy,omitempty"`

	// DefaultTooltipIndex pre-selects an active index at mount time.
	// Nil means no initial selection; zero selects the first record.
	DefaultTooltipIndex *int `json:"default_tooltip_index,omitempty" toml:"default_tooltip_index,omitempty"`

	// validated tracks whether SetDefaults has been applied.
	validated bool `json:"-" toml:"-"`
}

// Index returns i as an optional index value, for fields where an
// explicit zero must stay distinguishable from an absent one.
func Index(i int) *int { return &i }

// Float returns v as an optional numeric value.
func Float(v float64) *float64 { return &v }

// Window is the [StartIndex, EndIndex] slice of the full dataset the chart
// currently displays.
type Window struct {
	StartIndex int `json:"start_index" bson:"start_index"`
	EndIndex   int `json:"end_index" bson:"end_index"`
}

// FullWindow returns the window covering an n-record dataset.
func FullWindow(n int) Window {
	if n <= 0 {
		return Window{}
	}
	return Window{StartIndex: 0, EndIndex: n - 1}
}

// Clamp restricts the window to a dataset of length n.
func (w Window) Clamp(n int) Window {
	if n <= 0 {
		return Window{}
	}
	if w.StartIndex < 0 {
		w.StartIndex = 0
	}
	if w.StartIndex >= n {
		w.StartIndex = n - 1
	}
	if w.EndIndex >= n {
		w.EndIndex = n - 1
	}
	if w.EndIndex < w.StartIndex {
		w.EndIndex = w.StartIndex
	}
	return w
}

// Len returns the number of displayed records.
func (w Window) Len() int { return w.EndIndex - w.StartIndex + 1 }

// =============================================================================
// Defaults and Validation
// =============================================================================

// validStackOffsets enumerates recognized accumulation modes.
var validStackOffsets = map[string]bool{
	"":           true, // defaults to none
	"none":       true,
	"expand":     true,
	"wiggle":     true,
	"silhouette": true,
	"sign":       true,
}

// SetDefaults applies stated defaults in place. It is idempotent.
func (c *ChartSpec) SetDefaults() {
	if c.validated {
		return
	}
	if c.Layout == "" {
		c.Layout = LayoutHorizontal
	}
	if c.StackOffset == "" {
		c.StackOffset = "none"
	}
	if c.BarGap == nil {
		c.BarGap = Float(DefaultBarGap)
	}
	if c.BarCategoryGap == nil {
		c.BarCategoryGap = Float(DefaultBarCategoryGap)
	}
	if c.SyncPolicy == "" {
		c.SyncPolicy = SyncByIndex
	}
	if c.Brush != nil && c.Brush.Height == 0 {
		c.Brush.Height = DefaultBrushHeight
	}

	for i := range c.Axes {
		ax := &c.Axes[i]
		if ax.Type == "" {
			ax.Type = defaultAxisType(c.Layout, ax.Dim)
		}
		if ax.Orientation == "" {
			ax.Orientation = defaultOrientation(ax.Dim)
		}
		if ax.Padding == "" {
			ax.Padding = scale.PaddingNone
		}
		if ax.TickCount == 0 {
			ax.TickCount = DefaultTickCount
		}
		if ax.Size == 0 {
			ax.Size = defaultAxisSize(ax.Dim)
		}
	}
	c.validated = true
}

// defaultAxisType mirrors the layout convention: the category dimension is
// x for horizontal charts, y for vertical ones, angle for centric, radius
// for radial.
func defaultAxisType(layout LayoutKind, dim Dimension) AxisType {
	if dim == CategoryDim(layout) {
		return AxisCategory
	}
	return AxisContinuous
}

// CategoryDim returns the dimension that carries categories for a layout.
func CategoryDim(layout LayoutKind) Dimension {
	switch layout {
	case LayoutVertical:
		return DimY
	case LayoutCentric:
		return DimAngle
	case LayoutRadial:
		return DimRadius
	default:
		return DimX
	}
}

// NumericDim returns the dimension that carries values for a layout.
func NumericDim(layout LayoutKind) Dimension {
	switch layout {
	case LayoutVertical:
		return DimX
	case LayoutCentric:
		return DimRadius
	case LayoutRadial:
		return DimAngle
	default:
		return DimY
	}
}

func defaultOrientation(dim Dimension) Orientation {
	if dim == DimY || dim == DimRadius {
		return OrientLeft
	}
	return OrientBottom
}

func defaultAxisSize(dim Dimension) float64 {
	if dim == DimY {
		return DefaultYAxisSize
	}
	return DefaultXAxisSize
}

// Validate checks the configuration contract. Violations indicate caller
// bugs and are returned as loud structured errors, never silently ignored.
func (c *ChartSpec) Validate() error {
	c.SetDefaults()

	if !validStackOffsets[c.StackOffset] {
		return errors.New(errors.ErrCodeInvalidOffsetMode, "unknown stack offset %q", c.StackOffset)
	}
	switch c.Layout {
	case LayoutHorizontal, LayoutVertical, LayoutCentric, LayoutRadial:
	default:
		return errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", c.Layout)
	}
	switch c.SyncPolicy {
	case SyncByIndex, SyncByValue, SyncCustom:
	default:
		return errors.New(errors.ErrCodeInvalidPolicy, "unknown sync policy %q", c.SyncPolicy)
	}

	byDim := map[Dimension]map[string]*AxisSpec{}
	seen := map[string]bool{}
	for i := range c.Axes {
		ax := &c.Axes[i]
		if err := errors.ValidateID(ax.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidAxis, err, "axis %d", i)
		}
		key := string(ax.Dim) + "/" + ax.ID
		if seen[key] {
			return errors.New(errors.ErrCodeInvalidAxis, "duplicate axis id %q for dimension %s", ax.ID, ax.Dim)
		}
		seen[key] = true
		if byDim[ax.Dim] == nil {
			byDim[ax.Dim] = map[string]*AxisSpec{}
		}
		byDim[ax.Dim][ax.ID] = ax
	}

	for i := range c.Series {
		s := &c.Series[i]
		if s.Key == "" {
			return errors.New(errors.ErrCodeInvalidSeries, "series %d has no key", i)
		}
		if s.DataKey.IsZero() {
			return errors.New(errors.ErrCodeInvalidSeries, "series %q has no data key", s.Key)
		}
		for _, dim := range []Dimension{DimX, DimY, DimAngle, DimRadius} {
			id := s.AxisIDFor(dim)
			if id == "" {
				continue
			}
			if byDim[dim][id] == nil {
				return errors.New(errors.ErrCodeAxisMismatch,
					"series %q references %s axis %q, but no such axis is declared", s.Key, dim, id)
			}
		}
	}

	for i, r := range c.References {
		if r.AxisID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "reference %d has no axis id", i)
		}
	}

	return nil
}

// AxisByID returns the declared axis for (dim, id), or nil.
func (c *ChartSpec) AxisByID(dim Dimension, id string) *AxisSpec {
	for i := range c.Axes {
		ax := &c.Axes[i]
		if ax.Dim == dim && ax.ID == id {
			return ax
		}
	}
	return nil
}

// SeriesFor returns the series bound to the axis (dim, id), honoring empty
// references as "the first declared axis of that dimension".
func (c *ChartSpec) SeriesFor(dim Dimension, id string) []*SeriesSpec {
	defaultID := c.defaultAxisID(dim)
	var out []*SeriesSpec
	for i := range c.Series {
		s := &c.Series[i]
		ref := s.AxisIDFor(dim)
		if ref == "" {
			ref = defaultID
		}
		if ref == id {
			out = append(out, s)
		}
	}
	return out
}

// defaultAxisID returns the id of the first declared axis of a dimension,
// or "0" (the implicit axis id) when none is declared.
func (c *ChartSpec) defaultAxisID(dim Dimension) string {
	for i := range c.Axes {
		if c.Axes[i].Dim == dim {
			return c.Axes[i].ID
		}
	}
	return "0"
}
