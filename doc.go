package resguard

// Package resguard provides:
//
// - Schema-directed parsing of JSON-like data via Parse/ParseJSON/ParseYAML (coerce -> recurse -> post-process)
// - A stable error model via Issues (JSON Pointer path, code, message, preserved cause)
// - Schema inference from sample documents and printing via Infer/InferJSON/InferYAML and Print
//
// Design policy:
// - Keep only public APIs in the root package.
// - Place the schema builder under dsl/, ready-made coercers under codec/,
//   and the CLI under cmd/resguard.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Record("Fact").
//		Field("text", resguard.String()).
//		Field("sentCount", resguard.Int()).
//		MustBuild()
//	inst, err := resguard.ParseJSON(ctx, s, data)
//
//	tree, err := resguard.InferJSON("Root", data)
//	fmt.Print(resguard.Print(tree))
