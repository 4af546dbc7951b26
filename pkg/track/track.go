package track

// Shape names a glyph used to draw a fragment. The zero value leaves the
// choice to the renderer.
type Shape string

// Shapes understood by the renderers.
const (
	ShapeRectangle         Shape = "rectangle"
	ShapeRoundRectangle    Shape = "roundRectangle"
	ShapeBridge            Shape = "bridge"
	ShapeDiamond           Shape = "diamond"
	ShapeChevron           Shape = "chevron"
	ShapeCatFace           Shape = "catFace"
	ShapeTriangle          Shape = "triangle"
	ShapeWave              Shape = "wave"
	ShapeHexagon           Shape = "hexagon"
	ShapePentagon          Shape = "pentagon"
	ShapeCircle            Shape = "circle"
	ShapeArrow             Shape = "arrow"
	ShapeDoubleBar         Shape = "doubleBar"
	ShapeLine              Shape = "line"
	ShapeHelix             Shape = "helix"
	ShapeStrand            Shape = "strand"
	ShapeDiscontinuosStart Shape = "discontinuosStart"
	ShapeDiscontinuos      Shape = "discontinuos"
	ShapeDiscontinuosEnd   Shape = "discontinuosEnd"
)

var knownShapes = map[Shape]bool{
	ShapeRectangle: true, ShapeRoundRectangle: true, ShapeBridge: true,
	ShapeDiamond: true, ShapeChevron: true, ShapeCatFace: true,
	ShapeTriangle: true, ShapeWave: true, ShapeHexagon: true,
	ShapePentagon: true, ShapeCircle: true, ShapeArrow: true,
	ShapeDoubleBar: true, ShapeLine: true, ShapeHelix: true,
	ShapeStrand: true, ShapeDiscontinuosStart: true, ShapeDiscontinuos: true,
	ShapeDiscontinuosEnd: true,
}

// Valid reports whether s is empty or one of the known shapes.
func (s Shape) Valid() bool { return s == "" || knownShapes[s] }

// Fragment is one contiguous span [Start, End] in reference coordinates.
// Start is never greater than End.
type Fragment struct {
	ID          int    `json:"id,omitempty"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	BorderColor string `json:"border_color,omitempty"`
	FillColor   string `json:"fill_color,omitempty"`
	Shape       Shape  `json:"shape,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
}

// Len returns the number of positions covered by the fragment.
func (f Fragment) Len() int { return f.End - f.Start + 1 }

// Overlaps reports whether f and o share at least one position.
func (f Fragment) Overlaps(o Fragment) bool {
	return f.Start <= o.End && o.Start <= f.End
}

// Location is one annotated region made of ordered fragments. RefStart and
// RefEnd, when non-zero, bound the reference range the fragments live in.
type Location struct {
	Fragments []Fragment `json:"fragments"`
	RefStart  int        `json:"ref_start,omitempty"`
	RefEnd    int        `json:"ref_end,omitempty"`
}

// Span returns the lowest start and highest end over all fragments.
// ok is false for an empty location.
func (l Location) Span() (start, end int, ok bool) {
	for i, f := range l.Fragments {
		if i == 0 || f.Start < start {
			start = f.Start
		}
		if i == 0 || f.End > end {
			end = f.End
		}
	}
	return start, end, len(l.Fragments) > 0
}

// Accession is one annotated entity drawn on a single line.
type Accession struct {
	Type               string     `json:"type"`
	Color              string     `json:"color,omitempty"`
	Locations          []Location `json:"locations"`
	ExperimentalMethod string     `json:"experimental_method,omitempty"`
	CoordinatesFile    string     `json:"coordinates_file,omitempty"`
	Coverage           float64    `json:"coverage,omitempty"`
	PDBStart           int        `json:"pdb_start,omitempty"`
	PDBEnd             int        `json:"pdb_end,omitempty"`
	UniprotStart       int        `json:"uniprot_start,omitempty"`
	UniprotEnd         int        `json:"uniprot_end,omitempty"`
}

// Fragments returns every fragment of every location in order.
func (a Accession) Fragments() []Fragment {
	var out []Fragment
	for _, l := range a.Locations {
		out = append(out, l.Fragments...)
	}
	return out
}

// Row is a labeled group of accessions. A parser emits rows; a container turns
// each row into one subtrack.
type Row struct {
	Label string      `json:"label"`
	Data  []Accession `json:"accessions"`
}

// Merge concatenates the accessions of rows, preserving order.
func Merge(rows []Row) []Accession {
	var out []Accession
	for _, r := range rows {
		out = append(out, r.Data...)
	}
	return out
}
