/*
Package deepset writes values deep inside nested Go data, creating the missing levels on the way.

Given a host container, a path and a value, deepset follows the levels that already
exist, builds the ones that do not, and stores the value at the last key. The kind of
each new level is chosen from the key that will address it: index-like keys ("0", 3)
create []any, other strings create map[string]any, and anything else (pointers,
negative numbers, containers) creates an ordered key-value container.

# Containers

Three container families can be written into:

  - Indexed: map[string]any, []any and *[]any. Lists grow with nil holes.
  - Key-value: map[any]any and any container.KeyValue such as container.Map or container.WeakMap.
  - Unordered: any container.Collection such as container.Set. Keys are positions in
    iteration order; writing at a position replaces the member there and keeps the order.

A root list that may need to grow must be passed as *[]any.

# Usage

	host := map[string]any{}
	ok := deepset.Set(host, "foo.bar[0]", "baz")
	// host == map[string]any{"foo": map[string]any{"bar": []any{"baz"}}}

Failures never panic: Set reports false, and Stream exposes every intermediate step,
including the error that ended the walk.

	w, err := deepset.Stream(host, []any{"foo", "qux", 2}, true)
	if err != nil {
		log.Fatal(err)
	}
	for step := range w.All() {
		fmt.Println(step.Kind, step.Depth, step.Key)
	}

Writes are applied as they happen. A failed walk leaves the levels it already built in place.
*/
package deepset
