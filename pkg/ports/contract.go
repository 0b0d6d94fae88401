package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDiagramStoreContract runs a suite of tests to verify that a DiagramStore implementation
// adheres to the defined interface contract.
func RunDiagramStoreContract(t *testing.T, store DiagramStore) {
	ctx := context.Background()
	diagramID := "contract-test-diagram-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := domain.NewDocument(diagramID, domain.ClassDiagram)
		doc.State = domain.FromElements(domain.NewElement("a", domain.KindClass, "A"))

		err := store.Save(ctx, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, diagramID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.ClassDiagram, loaded.Type)
		assert.True(t, loaded.State.Has("a"))
	})

	t.Run("Load Isolation", func(t *testing.T) {
		loaded, err := store.Load(ctx, diagramID)
		require.NoError(t, err)

		loaded.Past = append(loaded.Past, domain.NewState())
		loaded.Type = domain.ActivityDiagram

		again, err := store.Load(ctx, diagramID)
		require.NoError(t, err)
		assert.Empty(t, again.Past, "mutating a loaded document must not leak into the store")
		assert.Equal(t, domain.ClassDiagram, again.Type)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+diagramID)
		assert.ErrorIs(t, err, domain.ErrDiagramNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, domain.NewDocument(diagramID, domain.ClassDiagram))
		require.NoError(t, err)

		err = store.Delete(ctx, diagramID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, diagramID)
		assert.ErrorIs(t, err, domain.ErrDiagramNotFound, "Load after Delete should return ErrDiagramNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := diagramID + "-1"
		id2 := diagramID + "-2"
		_ = store.Save(ctx, domain.NewDocument(id1, domain.ClassDiagram))
		_ = store.Save(ctx, domain.NewDocument(id2, domain.ActivityDiagram))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
