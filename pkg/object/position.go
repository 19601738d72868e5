package object

// PositionRelativeTo places o next to ref, one locator per axis:
//
//	sameas    ref's offset
//	before    ref's offset minus o's size (leftof, above)
//	after     ref's offset plus ref's size (rightof, below)
//	centerof  ref's offset plus half the size difference
//	mirror    ref's offset negated, alignment flipped
//	<align>   that alignment with no offset
//	""        axis unchanged
//
// The relative locators adopt ref's alignment and work on offsets only, so
// before and after sit flush against ref when it is left or top aligned.
// extraX and extraY are added to the resulting offset. Both locators are
// validated before anything changes.
func (o *Object) PositionRelativeTo(ref *Object, locX, locY Loc, extraX, extraY float64) error {
	if err := validateLoc(AxisX, locX); err != nil {
		return err
	}
	if err := validateLoc(AxisY, locY); err != nil {
		return err
	}
	o.positionAxis(ref, AxisX, normLoc(locX), extraX)
	o.positionAxis(ref, AxisY, normLoc(locY), extraY)
	return nil
}

func (o *Object) positionAxis(ref *Object, axis Axis, loc Loc, extra float64) {
	if loc == LocNone {
		return
	}
	size, refSize := o.Size()[axis], ref.Size()[axis]
	refOffset := ref.offset[axis]

	switch loc {
	case LocSameAs:
		o.align[axis] = ref.align[axis]
		o.offset[axis] = refOffset + extra
	case LocMirror:
		o.align[axis] = ref.align[axis].Flip()
		o.offset[axis] = -refOffset + extra
	case LocBefore:
		o.align[axis] = ref.align[axis]
		o.offset[axis] = refOffset - size + extra
	case LocAfter:
		o.align[axis] = ref.align[axis]
		o.offset[axis] = refOffset + refSize + extra
	case LocCenterOf:
		o.align[axis] = ref.align[axis]
		o.offset[axis] = refOffset + (refSize-size)/2 + extra
	default:
		o.align[axis] = Align(loc)
		o.offset[axis] = extra
	}
}
