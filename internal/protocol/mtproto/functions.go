package mtproto

import "github.com/danmuck/tlwire/internal/protocol/tl"

const (
	InvokeWithLayerID      uint32 = 0xda9b0d0d
	UpdatesGetDifferenceID uint32 = 0x25939651
)

// invokeWithLayer#da9b0d0d {X:Type} layer:int query:!X = X;
type InvokeWithLayer struct {
	Layer int32
	Query tl.Object
}

func (*InvokeWithLayer) TypeID() uint32   { return InvokeWithLayerID }
func (*InvokeWithLayer) TypeName() string { return "invokeWithLayer" }

func (i *InvokeWithLayer) Fields() []tl.Field {
	return []tl.Field{
		{Name: "layer", Value: i.Layer},
		{Name: "query", Value: i.Query},
	}
}

func (i *InvokeWithLayer) Encode(w *tl.Writer) error {
	w.PutID(InvokeWithLayerID)
	w.PutInt32(i.Layer)
	w.PutObject(i.Query)
	return w.Err()
}

func readInvokeWithLayer(r *tl.Reader) (tl.Object, error) {
	i := &InvokeWithLayer{}
	var err error
	if i.Layer, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if i.Query, err = r.ReadObject(); err != nil {
		return nil, err
	}
	return i, nil
}

// updates.getDifference#25939651 flags:# pts:int pts_total_limit:flags.0?int date:int qts:int = updates.Difference;
type UpdatesGetDifference struct {
	Pts           int32
	PtsTotalLimit *int32
	Date          int32
	Qts           int32
}

func (*UpdatesGetDifference) TypeID() uint32   { return UpdatesGetDifferenceID }
func (*UpdatesGetDifference) TypeName() string { return "updates.getDifference" }

func (u *UpdatesGetDifference) Fields() []tl.Field {
	var limit any
	if u.PtsTotalLimit != nil {
		limit = *u.PtsTotalLimit
	}
	return []tl.Field{
		{Name: "pts", Value: u.Pts},
		{Name: "pts_total_limit", Value: limit},
		{Name: "date", Value: u.Date},
		{Name: "qts", Value: u.Qts},
	}
}

func (u *UpdatesGetDifference) Encode(w *tl.Writer) error {
	var flags tl.Flags
	flags.SetIf(0, u.PtsTotalLimit != nil)

	w.PutID(UpdatesGetDifferenceID)
	w.PutFlags(flags)
	w.PutInt32(u.Pts)
	if u.PtsTotalLimit != nil {
		w.PutInt32(*u.PtsTotalLimit)
	}
	w.PutInt32(u.Date)
	w.PutInt32(u.Qts)
	return w.Err()
}

func readUpdatesGetDifference(r *tl.Reader) (tl.Object, error) {
	u := &UpdatesGetDifference{}
	flags, err := r.ReadFlags()
	if err != nil {
		return nil, err
	}
	if u.Pts, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if flags.Has(0) {
		limit, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		u.PtsTotalLimit = &limit
	}
	if u.Date, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if u.Qts, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	return u, nil
}
