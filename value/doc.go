// Package value implements the dynamically typed tree used for task
// configuration.
//
// A Value is null, a scalar (bool, int, float, string), an array, an object,
// or a pending input: a scalar that is not known yet and will be asked from
// the user when the tree is resolved.
//
//	root := value.ObjectOf(
//		"stage", input.NewSelect([]string{"1-7", "CE-6"}, input.WithDefaultIndex(1)),
//		"times", 3,
//	)
//	if err := root.Init(input.NonInteractive); err != nil {
//		return err
//	}
//	stage, err := value.GetOr(root, "stage", "1-7", nil)
//
// Trees are merged with Merge, where objects merge key by key and anything
// else is replaced by the right hand side. The JSON and YAML codecs use an
// untagged encoding: a pending input is written as a mapping with default,
// description, alternatives and default_index fields, and mappings with
// exactly those shapes are read back as pending inputs.
package value
