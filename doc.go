/*
Package strata implements typed, composable containers on top of a flat
binary key-value store (in this case, on top of Bolt or an in-memory
backend).

We implement:

1. Items, single typed values stored at a fixed key.

2. Columns, append-only sequences of typed rows with auto-assigned ids.

3. Maps, typed keys mapping to any inner container, nestable to any depth.

4. Sets, typed keys with membership only and no values.

# Technical Details

**Branches.**
Containers scope themselves via key prefixes called branches. A branch
extends every key with its prefix on the way in and strips it on the way
out, translating iteration bounds so a range over the branch covers exactly
the prefixed subtree of the parent keyspace.

**Metadata partition.**
Bookkeeping (column counters and the like) lives behind a reserved 0xFF
leading byte at the backend level, prefixed like any other key by the
branch chain above it. It never appears in iteration over user data. The
reservation is a contract with the caller: keys written through a
byte-keyed container at the storage root must not start with 0xFF, and
branches must not be rooted at 0xFF-leading prefixes.

## Binary encoding

**Key encoding.**
Keys are encoded preserving order: byte strings compare lexicographically
the same way the typed keys compare. Unsigned integers are big-endian;
signed integers are big-endian with the sign bit flipped; strings and byte
slices are verbatim.

**Composite keys.**
When a map nests another container, the map's key fragment and the inner
container's fragment share one flat byte key. If the map key has a fixed
encoded size, the fragment is exactly that many bytes. If it is dynamic and
the inner container stores nothing past its root, the fragment consumes the
rest of the key. Otherwise a one-byte length is prepended, which breaks
lexicographic order and with it bounded iteration for that map.

**Values** are serialized through a pluggable Encoding; the msgpackenc,
cborenc and jsonenc subpackages provide implementations.
*/
package strata
