package ir

import "testing"

func TestReferencedColumns(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want []int
	}{
		{
			name: "constant reads nothing",
			expr: &Constant{Type: INTEGER, Value: int64(1)},
			want: nil,
		},
		{
			name: "single column",
			expr: &ColumnRef{Index: 3, Type: INTEGER},
			want: []int{3},
		},
		{
			name: "binary op dedups and sorts",
			expr: &BinaryOp{
				Op:    OpAdd,
				Left:  &ColumnRef{Index: 5, Type: INTEGER},
				Right: &ColumnRef{Index: 1, Type: INTEGER},
				Type:  INTEGER,
			},
			want: []int{1, 5},
		},
		{
			name: "case walks branches, condition, and else",
			expr: &Case{
				Branches: []WhenClause{
					{Cond: &ColumnRef{Index: 2, Type: BOOLEAN}, Then: &ColumnRef{Index: 0, Type: INTEGER}},
				},
				Else: &ColumnRef{Index: 2, Type: INTEGER},
				Type: INTEGER,
			},
			want: []int{0, 2},
		},
		{
			name: "call walks every argument",
			expr: &Call{
				Name: "SUBSTRING",
				Args: []Expr{
					&ColumnRef{Index: 4, Type: VARCHAR},
					&ColumnRef{Index: 1, Type: INTEGER},
				},
				Type: VARCHAR,
			},
			want: []int{1, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReferencedColumns(tt.expr)
			if !intSliceEqual(got, tt.want) {
				t.Errorf("ReferencedColumns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComplexity(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want int
	}{
		{
			name: "leaf is one",
			expr: &ColumnRef{Index: 0, Type: INTEGER},
			want: 1,
		},
		{
			name: "binary op counts both children plus itself",
			expr: &BinaryOp{
				Op:    OpAdd,
				Left:  &ColumnRef{Index: 0, Type: INTEGER},
				Right: &Constant{Type: INTEGER, Value: int64(1)},
				Type:  INTEGER,
			},
			want: 3,
		},
		{
			name: "case counts every branch and the else",
			expr: &Case{
				Branches: []WhenClause{
					{Cond: &ColumnRef{Index: 0, Type: BOOLEAN}, Then: &Constant{Type: INTEGER, Value: int64(1)}},
				},
				Else: &Constant{Type: INTEGER, Value: int64(2)},
				Type: INTEGER,
			},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Complexity(tt.expr); got != tt.want {
				t.Errorf("Complexity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
