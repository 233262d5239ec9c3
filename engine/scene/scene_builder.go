package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *editorScene)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *editorScene) {
		s.name = name
	}
}

// WithObjects adds initial objects to the scene, assigning IDs in order.
//
// Parameters:
//   - objects: the objects to register
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...Object) SceneBuilderOption {
	return func(s *editorScene) {
		for _, obj := range objects {
			id := s.nextID.Add(1)
			obj.SetID(id)
			s.objects[id] = obj
			s.order = append(s.order, id)
		}
	}
}
