// Package inspect extracts callable signatures from Python modules without
// executing them.
//
// # Overview
//
// [Inspector.Inspect] parses a module node's source with tree-sitter and
// returns one [Signature] per top-level function and per method of a
// top-level class, in source order. Each signature carries an object node
// whose [graph.ObjectLocation] extends the module's dotted path with a
// reference path:
//
//	def load(path, /, mode="r", *args, strict: bool = False, **kw) -> Data: ...
//
//	class Client:
//	    async def get(self, url): ...
//
// yields objects with reference paths ["load"] and ["Client", "get"].
// Parameter kinds follow the `/`, `*`, `*args` and `**kwargs` markers:
//
//	path    POSITIONAL_ONLY
//	mode    POSITIONAL_OR_KEYWORD   default "\"r\""
//	args    VAR_POSITIONAL
//	strict  KEYWORD_ONLY            annotation "bool", default "False"
//	kw      VAR_KEYWORD
//
// Defaults and annotations are kept as source text.
//
// # Concurrency
//
// An [Inspector] is safe for concurrent use; every call creates its own
// parser.
package inspect
