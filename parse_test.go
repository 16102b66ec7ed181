package resguard_test

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	resguard "github.com/dhilst/resguard"
	"github.com/dhilst/resguard/dsl"
)

func barSchemas(t *testing.T) (foo, bar *resguard.RecordSchema) {
	t.Helper()
	foo = dsl.Record("Foo").
		Field("name", resguard.Int()).
		MustBuild()
	bar = dsl.Record("Bar").
		Field("l", &resguard.Seq{Elem: resguard.Int()}).
		Field("foo", &resguard.Map{Key: resguard.String(), Elem: resguard.Int()}).
		Field("Foo", &resguard.Ref{Schema: foo}).
		Field("age", &resguard.Optional{Elem: resguard.Int()}).Default(nil).
		MustBuild()
	return foo, bar
}

func TestParse_HappyPath(t *testing.T) {
	_, bar := barSchemas(t)
	data := map[string]any{
		"foo": map[string]any{"bar": 1},
		"l":   []any{},
		"Foo": map[string]any{"name": 1},
	}
	inst, err := resguard.Parse(context.Background(), bar, data)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := inst.Get("l"); !reflect.DeepEqual(got, []any{}) {
		t.Fatalf("l: expected empty slice, got %#v", got)
	}
	if got := inst.Get("foo"); !reflect.DeepEqual(got, map[string]any{"bar": int64(1)}) {
		t.Fatalf("foo: unexpected %#v", got)
	}
	nested, ok := inst.Get("Foo").(*resguard.Instance)
	if !ok {
		t.Fatalf("Foo: expected nested instance, got %#v", inst.Get("Foo"))
	}
	if got := nested.Get("name"); got != int64(1) {
		t.Fatalf("Foo.name: expected 1, got %#v", got)
	}
	if got := inst.Get("age"); got != nil {
		t.Fatalf("age: expected nil default, got %#v", got)
	}
	if got := inst.Fields(); !reflect.DeepEqual(got, []string{"l", "foo", "Foo", "age"}) {
		t.Fatalf("field order: %#v", got)
	}
}

func TestParse_UnknownKeyStrict(t *testing.T) {
	_, bar := barSchemas(t)
	data := map[string]any{
		"foo":    map[string]any{"bar": 1},
		"l":      []any{},
		"Foo":    map[string]any{"name": 1},
		"badkey": "bad things",
	}
	_, err := resguard.Parse(context.Background(), bar, data)
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected exactly one issue, got %v", err)
	}
	it := iss[0]
	if it.Code != resguard.CodeUnknownKey {
		t.Fatalf("expected unknown_key, got %s", it.Code)
	}
	if it.Params["record"] != "Bar" || it.Params["key"] != "badkey" {
		t.Fatalf("unexpected params: %#v", it.Params)
	}
	want := []string{"l", "foo", "Foo", "age"}
	if got := it.Params["expected"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected field list %v in declaration order, got %#v", want, got)
	}
	if msg := it.Message; !strings.Contains(msg, "l,foo,Foo,age") {
		t.Fatalf("message must enumerate expected fields, got %q", msg)
	}
}

func TestParse_LenientIgnoresUnknownKeys(t *testing.T) {
	_, bar := barSchemas(t)
	data := map[string]any{
		"foo":    map[string]any{"bar": 1},
		"l":      []any{},
		"Foo":    map[string]any{"name": 1},
		"badkey": "bad things",
	}
	inst, err := resguard.Parse(context.Background(), bar, data, resguard.ParseOpt{Lenient: true})
	if err != nil {
		t.Fatalf("lenient parse err: %v", err)
	}
	if got := inst.Get("badkey"); got != nil {
		t.Fatalf("unknown key must not land on the instance, got %#v", got)
	}
}

func TestParse_MissingRequiredField(t *testing.T) {
	foo := dsl.Record("Foo").Field("foo", resguard.Int()).MustBuild()
	_, err := resguard.Parse(context.Background(), foo, map[string]any{})
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != resguard.CodeRequired {
		t.Fatalf("expected required issue, got %v", err)
	}
	if iss[0].Params["record"] != "Foo" || iss[0].Params["field"] != "foo" {
		t.Fatalf("unexpected params: %#v", iss[0].Params)
	}
}

func TestParse_CoercionFailurePreservesCause(t *testing.T) {
	foo := dsl.Record("Foo").Field("foo", resguard.Int()).MustBuild()
	_, err := resguard.Parse(context.Background(), foo, map[string]any{"foo": "an string"})
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	it := iss[0]
	if it.Code != resguard.CodeCoercion {
		t.Fatalf("expected coercion, got %s", it.Code)
	}
	if it.Cause == nil {
		t.Fatalf("underlying conversion error must be preserved")
	}
	if it.Params["value"] != "an string" {
		t.Fatalf("raw value missing from params: %#v", it.Params)
	}
}

func TestParse_StringAcceptsAnything(t *testing.T) {
	foo := dsl.Record("Foo").Field("foo", resguard.String()).MustBuild()
	inst, err := resguard.Parse(context.Background(), foo, map[string]any{"foo": 1})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := inst.Get("foo"); got != "1" {
		t.Fatalf("expected \"1\", got %#v", got)
	}
}

func TestParse_NestedErrorPathHasFieldContext(t *testing.T) {
	foo, bar := barSchemas(t)
	_ = foo
	data := map[string]any{
		"foo": map[string]any{"bar": 1},
		"l":   []any{},
		"Foo": map[string]any{"name": "not an int"},
	}
	_, err := resguard.Parse(context.Background(), bar, data)
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Path != "/Foo/name" {
		t.Fatalf("expected path /Foo/name, got %s", iss[0].Path)
	}
	if iss[0].Params["record"] != "Foo" {
		t.Fatalf("nested failure should name the nested record, got %#v", iss[0].Params)
	}
}

func TestParse_SequenceElementErrorPath(t *testing.T) {
	s := dsl.Record("L").Field("l", &resguard.Seq{Elem: resguard.Int()}).MustBuild()
	_, err := resguard.Parse(context.Background(), s, map[string]any{"l": []any{1, "x", 3}})
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Path != "/l/1" {
		t.Fatalf("expected path /l/1, got %s", iss[0].Path)
	}
}

func TestParse_LiteralAcceptsRawValueUnchanged(t *testing.T) {
	s := dsl.Record("Foo").Field("name", &resguard.Literal{Values: []any{0, 1}}).MustBuild()
	inst, err := resguard.Parse(context.Background(), s, map[string]any{"name": 7})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	// membership is informational, not enforced
	if got := inst.Get("name"); got != 7 {
		t.Fatalf("expected raw value back, got %#v", got)
	}
}

func TestParse_UnionTriesMembersInOrder(t *testing.T) {
	s := dsl.Record("V").
		Field("v", &resguard.Union{Members: []resguard.Type{resguard.Int(), resguard.String()}}).
		MustBuild()

	inst, err := resguard.Parse(context.Background(), s, map[string]any{"v": 1})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := inst.Get("v"); got != int64(1) {
		t.Fatalf("expected int64(1), got %#v", got)
	}

	inst, err = resguard.Parse(context.Background(), s, map[string]any{"v": "abc"})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := inst.Get("v"); got != "abc" {
		t.Fatalf("expected \"abc\", got %#v", got)
	}
}

func TestParse_UnionReportsLastMemberFailure(t *testing.T) {
	s := dsl.Record("V").
		Field("v", &resguard.Union{Members: []resguard.Type{resguard.Int(), resguard.Bool()}}).
		MustBuild()
	_, err := resguard.Parse(context.Background(), s, map[string]any{"v": []any{}})
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	it := iss[0]
	if it.Code != resguard.CodeCoercion {
		t.Fatalf("expected coercion, got %s", it.Code)
	}
	if it.Cause == nil {
		t.Fatalf("last member's conversion error must be preserved")
	}
	// the last member tried was bool, so its rejection is the one reported
	if !strings.Contains(it.Cause.Error(), "bool") {
		t.Fatalf("expected the last member's failure, got %v", it.Cause)
	}
}

func TestParse_MapKeyCoercionFailure(t *testing.T) {
	s := dsl.Record("M").
		Field("m", &resguard.Map{Key: resguard.Int(), Elem: resguard.String()}).
		MustBuild()
	_, err := resguard.Parse(context.Background(), s, map[string]any{
		"m": map[string]any{"notanumber": "x"},
	})
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	it := iss[0]
	if it.Code != resguard.CodeCoercion {
		t.Fatalf("expected coercion, got %s", it.Code)
	}
	if it.Path != "/m/notanumber" {
		t.Fatalf("expected path /m/notanumber, got %s", it.Path)
	}
	if it.Cause == nil {
		t.Fatalf("key conversion error must be preserved")
	}
}

func TestParse_MapKeysStayStrings(t *testing.T) {
	s := dsl.Record("M").
		Field("m", &resguard.Map{Key: resguard.Int(), Elem: resguard.String()}).
		MustBuild()
	inst, err := resguard.Parse(context.Background(), s, map[string]any{
		"m": map[string]any{"7": "x"},
	})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := inst.Get("m"); !reflect.DeepEqual(got, map[string]any{"7": "x"}) {
		t.Fatalf("key type is validated but the stored key stays a string, got %#v", got)
	}
}

func TestParse_NullIsAbsence(t *testing.T) {
	s := dsl.Record("P").
		Field("a", &resguard.Optional{Elem: resguard.Int()}).Default(nil).
		Field("b", resguard.Int()).
		MustBuild()
	_, err := resguard.Parse(context.Background(), s, map[string]any{"a": nil, "b": nil})
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != resguard.CodeRequired {
		t.Fatalf("null on a required field must fail required, got %v", err)
	}
	if iss[0].Params["field"] != "b" {
		t.Fatalf("wrong field reported: %#v", iss[0].Params)
	}
}

func TestParse_PostProcessRunsOnceAfterFields(t *testing.T) {
	calls := 0
	s := dsl.Record("Date").
		Field("d", resguard.String()).
		PostProcess(func(in *resguard.Instance) error {
			calls++
			raw, _ := in.Get("d").(string)
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return err
			}
			in.Set("d", parsed)
			return nil
		}).
		MustBuild()
	inst, err := resguard.Parse(context.Background(), s, map[string]any{"d": "2020-01-02T02:02:48Z"})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if calls != 1 {
		t.Fatalf("hook must run exactly once, ran %d times", calls)
	}
	if _, ok := inst.Get("d").(time.Time); !ok {
		t.Fatalf("hook rewrite lost: %#v", inst.Get("d"))
	}
}

func TestParse_PostProcessErrorFailsParse(t *testing.T) {
	s := dsl.Record("Date").
		Field("d", resguard.String()).
		PostProcess(func(in *resguard.Instance) error {
			_, err := time.Parse(time.RFC3339, in.Get("d").(string))
			return err
		}).
		MustBuild()
	_, err := resguard.Parse(context.Background(), s, map[string]any{"d": "never"})
	if _, ok := resguard.AsIssues(err); !ok {
		t.Fatalf("expected structured issues, got %v", err)
	}
}

func TestParse_KeyAliasMatchesInputKey(t *testing.T) {
	s := dsl.Record("Fact").
		Field("id", resguard.String()).Key("_id").
		MustBuild()
	inst, err := resguard.Parse(context.Background(), s, map[string]any{"_id": "abc"})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := inst.Get("id"); got != "abc" {
		t.Fatalf("expected aliased value, got %#v", got)
	}
}

func TestParse_RoundTripScalarSchema(t *testing.T) {
	s := dsl.Record("S").
		Field("a", resguard.Int()).
		Field("b", resguard.String()).
		Field("c", resguard.Bool()).
		MustBuild()
	data := map[string]any{"a": 1, "b": "x", "c": true}
	first, err := resguard.Parse(context.Background(), s, data)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	second, err := resguard.Parse(context.Background(), s, first.AsMap())
	if err != nil {
		t.Fatalf("reparse err: %v", err)
	}
	if !reflect.DeepEqual(first.AsMap(), second.AsMap()) {
		t.Fatalf("round trip mismatch: %#v != %#v", first.AsMap(), second.AsMap())
	}
}

func TestParseJSON_NumbersSurviveAsIntegers(t *testing.T) {
	_, bar := barSchemas(t)
	doc := []byte(`{"foo":{"bar":1},"l":[1,2],"Foo":{"name":1}}`)
	inst, err := resguard.ParseJSON(context.Background(), bar, doc)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := inst.Get("l"); !reflect.DeepEqual(got, []any{int64(1), int64(2)}) {
		t.Fatalf("l: unexpected %#v", got)
	}
}

func TestParseJSON_MalformedDocument(t *testing.T) {
	_, bar := barSchemas(t)
	_, err := resguard.ParseJSON(context.Background(), bar, []byte(`{`))
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != resguard.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
	if iss[0].Cause == nil {
		t.Fatalf("decoder error must be preserved as cause")
	}
}

func TestSafeParse(t *testing.T) {
	foo := dsl.Record("Foo").Field("foo", resguard.Int()).MustBuild()
	if _, ok := resguard.SafeParse(context.Background(), foo, map[string]any{"foo": "nope"}); ok {
		t.Fatalf("expected failure")
	}
	if _, ok := resguard.SafeParse(context.Background(), foo, map[string]any{"foo": 1}); !ok {
		t.Fatalf("expected success")
	}
}

