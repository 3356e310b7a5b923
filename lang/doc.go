// Package lang implements scoped use declarations over token trees.
//
// An input begins with zero or more declarations followed by arbitrary
// tokens:
//
//	# use std::collections::{HashMap, hash_map::{self, Entry}};
//	# use ::core::fmt::Write as _;
//	let map: HashMap<u8, u8> = HashMap::new();
//
// [ParseDeclarations] expands the declarations into a flat list of
// [Binding] values. A [Table] merges them with a prelude [Registry], and
// [Rewrite] replaces every bare identifier bound in the table with its
// absolute path:
//
//	let map: ::std::collections::HashMap<u8, u8> = ::std::collections::HashMap::new();
//
// Identifiers that follow a path separator or a pound sign are never
// replaced, so qualified paths and quote variables (#name) pass through.
//
// # Declarations
//
// Informal EBNF:
//
//	Decl     → Intro [ '::' ] Chain ';'
//	Chain    → Segment ( '::' Chain | 'as' Ident | '{' List '}' )?
//	List     → ( Chain ( ',' Chain )* ','? )?
//	Segment  → Ident | '#' Token
//
// The segment self binds the enclosing path, under its own trailing name or
// an alias. A pound sign introduces a placeholder segment whose token is
// copied into the path unexamined.
//
// # Prelude
//
// Bundles are selected by [PreludeConfig]. Built-in bundles core, std and
// 2021 are embedded; user bundles precede them. Declaring no_prelude
// suppresses every bundle, and no_std suppresses bundles marked Std.
//
// # Namespacing
//
// When enabled by [NamespaceConfig], $name becomes __<seed>_name, $'a
// becomes '__<seed>_a, and $$ becomes $.
package lang
