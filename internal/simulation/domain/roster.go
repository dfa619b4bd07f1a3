package domain

import "sort"

// Roster 是兵种到数量的映射。
type Roster map[UnitKind]int

func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (r Roster) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}

func (r Roster) IsEmpty() bool {
	return r.Total() == 0
}

// Validate 要求非空且每项为正数。
func (r Roster) Validate() error {
	if len(r) == 0 {
		return ErrInvalidRoster.WithData("detail", "empty")
	}
	for unit, n := range r {
		if unit == "" || n <= 0 {
			return ErrInvalidRoster.WithData("unit", string(unit)).WithData("count", n)
		}
	}
	return nil
}

// Minus 返回 r - o，结果不会小于 0，零值项被去掉。
func (r Roster) Minus(o Roster) Roster {
	out := make(Roster, len(r))
	for k, v := range r {
		left := v - o[k]
		if left > 0 {
			out[k] = left
		}
	}
	return out
}

// Units 返回排序后的兵种列表。
func (r Roster) Units() []UnitKind {
	out := make([]UnitKind, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r Roster) Map() map[string]int {
	out := make(map[string]int, len(r))
	for k, v := range r {
		out[string(k)] = v
	}
	return out
}
