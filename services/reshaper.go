package services

import (
	"slices"

	"airbnb-etl/models"
)

const stageReshaper = "reshaper"

// Pivot cross-tabulates mean price by neighbourhood group and room type.
// Both axes are sorted; pairs with no listings have no cell.
func Pivot(t models.Table) (*models.PivotTable, error) {
	if err := t.Require(stageReshaper, models.ColNeighbourhoodGroup, models.ColRoomType, models.ColPrice); err != nil {
		return nil, err
	}

	cells := make(map[[2]string]*meanAcc)
	var groups, roomTypes []string
	for _, l := range t.Rows() {
		k := [2]string{l.NeighbourhoodGroup, l.RoomType}
		acc, ok := cells[k]
		if !ok {
			acc = &meanAcc{}
			cells[k] = acc
			if !slices.Contains(groups, k[0]) {
				groups = append(groups, k[0])
			}
			if !slices.Contains(roomTypes, k[1]) {
				roomTypes = append(roomTypes, k[1])
			}
		}
		acc.add(l.Price)
	}
	slices.Sort(groups)
	slices.Sort(roomTypes)

	p := models.NewPivotTable(groups, roomTypes)
	for k, acc := range cells {
		p.Set(k[0], k[1], acc.mean())
	}
	return p, nil
}

// Melt unpivots the value columns into (id columns..., variable, value)
// rows. Output is grouped by value column: every row for the first value
// column, then every row for the next.
func Melt(t models.Table, idColumns, valueColumns []string) (*models.Frame, error) {
	if err := t.Require(stageReshaper, idColumns...); err != nil {
		return nil, err
	}
	if err := t.Require(stageReshaper, valueColumns...); err != nil {
		return nil, err
	}

	f := models.NewFrame(append(slices.Clone(idColumns), "variable", "value")...)
	rows := t.Rows()
	for _, vc := range valueColumns {
		for _, l := range rows {
			out := make([]any, 0, len(idColumns)+2)
			for _, id := range idColumns {
				v, _ := l.Value(id)
				out = append(out, v)
			}
			v, _ := l.Value(vc)
			out = append(out, vc, v)
			f.Append(out...)
		}
	}
	return f, nil
}
