package expr

import "testing"

func TestSumFolding(t *testing.T) {
	tests := []struct {
		name string
		in   []Value
		want string
		int  bool
	}{
		{"empty", nil, "0", true},
		{"ints", Ints(10, 2, 3), "15", true},
		{"mixed", []Value{Int(10), Text("2*i+j")}, "10+2*i+j", false},
		{"no partial folding", []Value{Text("x"), Int(1), Int(2)}, "x+1+2", false},
		{"absent skipped", []Value{Int(4), {}, Int(1)}, "5", true},
		{"single text", []Value{Text("k")}, "k", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sum(tt.in...)
			if got.String() != tt.want {
				t.Fatalf("Sum = %q, want %q", got, tt.want)
			}
			if got.IsInt() != tt.int {
				t.Fatalf("Sum(%v).IsInt() = %v, want %v", tt.in, got.IsInt(), tt.int)
			}
		})
	}
}

func TestProductGroupsAdditiveOperands(t *testing.T) {
	tests := []struct {
		in   []Value
		want string
	}{
		{Ints(16, 6), "96"},
		{[]Value{Text("WIDTH"), Int(6)}, "WIDTH*6"},
		{[]Value{Int(16), Text("12*i+4*j+k")}, "16*(12*i+4*j+k)"},
		{[]Value{Text("BAR_SIZE*BAZ_SIZE"), Int(0)}, "BAR_SIZE*BAZ_SIZE*0"},
		{[]Value{Int(2), Text("-1")}, "2*-1"},
		{nil, "1"},
	}
	for _, tt := range tests {
		if got := Product(tt.in...).String(); got != tt.want {
			t.Errorf("Product(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStrides(t *testing.T) {
	got := Strides(Ints(2, 3, 4))
	want := []string{"12", "4", ""}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("stride[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !got[2].IsAbsent() {
		t.Fatalf("innermost stride must be absent")
	}

	sym := Strides(Names("FOO_SIZE", "BAR_SIZE", "BAZ_SIZE"))
	if sym[0].String() != "BAR_SIZE*BAZ_SIZE" || sym[1].String() != "BAZ_SIZE" {
		t.Fatalf("symbolic strides = %v", sym)
	}

	reg := Strides(Ints(4, 2))
	if v, ok := reg[0].Int(); !ok || v != 2 || !reg[1].IsAbsent() {
		t.Fatalf("register coefficients = %v", reg)
	}
}

func TestLinear(t *testing.T) {
	tests := []struct {
		sizes   []Value
		indices []Value
		want    string
	}{
		{Ints(2, 3, 4), Ints(0, 1, 2), "6"},
		{Ints(2, 3, 4), Names("i", "j", "k"), "12*i+4*j+k"},
		{Names("FOO_SIZE", "BAR_SIZE", "BAZ_SIZE"), Ints(0, 1, 2), "BAR_SIZE*BAZ_SIZE*0+BAZ_SIZE*1+2"},
		{Names("FOO_SIZE", "BAR_SIZE", "BAZ_SIZE"), Names("i", "j", "k"), "BAR_SIZE*BAZ_SIZE*i+BAZ_SIZE*j+k"},
		{Ints(4, 2), Names("i", "j"), "2*i+j"},
	}
	for _, tt := range tests {
		if got := Linear(Strides(tt.sizes), tt.indices).String(); got != tt.want {
			t.Errorf("Linear(%v, %v) = %q, want %q", tt.sizes, tt.indices, got, tt.want)
		}
	}
}
