package frame

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

var testColumns = []string{"market_id", "subtitle", "yes_bid"}

func testRecords() []Record {
	return []Record{
		{"market_id": "INX-24JAN15-B4800", "subtitle": "4,800 to 4,824.99", "yes_bid": 12},
		{"market_id": "INX-24JAN15-B4825", "subtitle": "4,825 to 4,849.99", "yes_bid": 31, "extra": "dropped"},
	}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		input   string
		want    Shape
		wantErr bool
	}{
		{"record-set", ShapeRecordSet, false},
		{"records", ShapeRecordSet, false},
		{"dict", ShapeRecordSet, false},
		{"table", ShapeTable, false},
		{"df", ShapeTable, false},
		{" Table ", ShapeTable, false},
		{"", "", true},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseShape(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidShape) {
					t.Errorf("ParseShape(%q) error = %v, want ErrInvalidShape", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseShape(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseShape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_InvalidShape(t *testing.T) {
	out, err := New(Shape("xlsx"), "markets", testColumns, testRecords())
	if !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("error = %v, want ErrInvalidShape", err)
	}
	if out != nil {
		t.Errorf("output = %v, want nil", out)
	}
}

func TestNew_ShapesCarrySameData(t *testing.T) {
	rsOut, err := New(ShapeRecordSet, "markets", testColumns, testRecords())
	if err != nil {
		t.Fatalf("New(record-set) failed: %v", err)
	}
	tblOut, err := New(ShapeTable, "markets", testColumns, testRecords())
	if err != nil {
		t.Fatalf("New(table) failed: %v", err)
	}

	if rsOut.Shape() != ShapeRecordSet || tblOut.Shape() != ShapeTable {
		t.Fatalf("shapes = %q/%q", rsOut.Shape(), tblOut.Shape())
	}
	if rsOut.Len() != 2 || tblOut.Len() != 2 {
		t.Fatalf("lengths = %d/%d, want 2/2", rsOut.Len(), tblOut.Len())
	}

	if !reflect.DeepEqual(rsOut.Table(), tblOut.Table()) {
		t.Errorf("record-set as table = %+v, want %+v", rsOut.Table(), tblOut.Table())
	}
	if !reflect.DeepEqual(tblOut.RecordSet(), rsOut.RecordSet()) {
		t.Errorf("table as record-set = %+v, want %+v", tblOut.RecordSet(), rsOut.RecordSet())
	}

	// Round trip through both conversions.
	back := rsOut.Table().RecordSet()
	if !reflect.DeepEqual(back, rsOut.RecordSet()) {
		t.Errorf("round trip = %+v, want %+v", back, rsOut.RecordSet())
	}

	if _, ok := rsOut.RecordSet().Records[1]["extra"]; ok {
		t.Error("column outside the projection was kept")
	}
}

func TestTable_Column(t *testing.T) {
	out, _ := New(ShapeTable, "markets", testColumns, testRecords())
	tbl := out.Table()

	got := tbl.Column("subtitle")
	want := []any{"4,800 to 4,824.99", "4,825 to 4,849.99"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Column(subtitle) = %v, want %v", got, want)
	}
	if tbl.Column("missing") != nil {
		t.Error("Column(missing) should be nil")
	}
}

func TestRecordSet_MarshalJSON(t *testing.T) {
	t.Run("keyed", func(t *testing.T) {
		out, _ := New(ShapeRecordSet, "markets", testColumns, testRecords()[:1])
		data, err := json.Marshal(out.RecordSet())
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		want := `{"markets":[{"market_id":"INX-24JAN15-B4800","subtitle":"4,800 to 4,824.99","yes_bid":12}]}`
		if string(data) != want {
			t.Errorf("json = %s, want %s", data, want)
		}
	})

	t.Run("empty is an empty list", func(t *testing.T) {
		data, err := json.Marshal(&RecordSet{Key: "markets"})
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != `{"markets":[]}` {
			t.Errorf("json = %s, want %s", data, `{"markets":[]}`)
		}
	})
}

func TestRender(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, _ := New(ShapeTable, "markets", testColumns, testRecords())
		var buf bytes.Buffer
		if err := out.Render(&buf); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		text := buf.String()
		for _, want := range []string{"market_id", "subtitle", "INX-24JAN15-B4825", "31"} {
			if !strings.Contains(text, want) {
				t.Errorf("rendered table missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("record set", func(t *testing.T) {
		out, _ := New(ShapeRecordSet, "markets", testColumns, testRecords())
		var buf bytes.Buffer
		if err := out.Render(&buf); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		var decoded map[string][]map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("rendered record set is not JSON: %v", err)
		}
		if len(decoded["markets"]) != 2 {
			t.Errorf("markets = %d, want 2", len(decoded["markets"]))
		}
	})
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"int64", int64(7), "7"},
		{"float", 4824.99, "4824.99"},
		{"bool", true, "true"},
		{"ladder", [][]int{{52, 100}, {51, 3}}, "[[52,100],[51,3]]"},
		{"record", Record{"yes": [][]int{{1, 2}}}, `{"yes":[[1,2]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCell(tt.v); got != tt.want {
				t.Errorf("FormatCell(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}
