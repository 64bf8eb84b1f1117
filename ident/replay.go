package ident

// Replay is a [Source] that hands out previously recorded identifiers in
// order, falling back to another source once the recording is exhausted.
//
// Commands use it so that re-executing an edit after an undo produces the
// same identifiers as the first execution.
type Replay struct {
	coords   []CoordID
	layers   []LayerID
	fallback Source

	recording bool
}

// Record returns a Replay that forwards to src and remembers every identifier
// handed out.
func Record(src Source) *Replay {
	return &Replay{fallback: src, recording: true}
}

// Rewind stops recording and makes the next calls return the recorded
// identifiers again, in order.
func (r *Replay) Rewind() *Replay {
	return &Replay{
		coords:   r.Coords(),
		layers:   r.Layers(),
		fallback: r.fallback,
	}
}

// Coords returns a copy of the recorded coordinate identifiers.
func (r *Replay) Coords() []CoordID { return append([]CoordID(nil), r.coords...) }

// Layers returns a copy of the recorded layer identifiers.
func (r *Replay) Layers() []LayerID { return append([]LayerID(nil), r.layers...) }

func (r *Replay) Coord() CoordID {
	if r.recording {
		id := r.fallback.Coord()
		r.coords = append(r.coords, id)
		return id
	}
	if len(r.coords) > 0 {
		id := r.coords[0]
		r.coords = r.coords[1:]
		return id
	}
	return r.fallback.Coord()
}

func (r *Replay) Layer() LayerID {
	if r.recording {
		id := r.fallback.Layer()
		r.layers = append(r.layers, id)
		return id
	}
	if len(r.layers) > 0 {
		id := r.layers[0]
		r.layers = r.layers[1:]
		return id
	}
	return r.fallback.Layer()
}
