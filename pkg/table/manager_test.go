package table_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tferrors "github.com/go-drift/tableflow/pkg/errors"
	"github.com/go-drift/tableflow/pkg/table"
	tabletest "github.com/go-drift/tableflow/pkg/testing"
)

// measured is a cell whose view fits the height carried by its model.
var measured = table.Cell[float64]{
	ReuseKey: "Measured",
	NewView:  func() table.View { return &tabletest.View{} },
	Configure: func(v table.View, h float64, _ table.Position) {
		v.(*tabletest.View).Fitting = h
	},
}

func rows(ids ...string) []*table.Row {
	out := make([]*table.Row, len(ids))
	for i, id := range ids {
		out[i] = table.NewRow(label, id, table.WithID(id))
	}
	return out
}

func setup(t *testing.T, sections ...*table.Section) (*tabletest.Surface, *table.Manager) {
	t.Helper()
	surface := tabletest.NewSurfaceWithT(t)
	manager := table.NewManager(surface)
	manager.AddSections(sections...)
	surface.ReloadData()
	surface.ResetOps()
	return surface, manager
}

func batchOps(s *tabletest.Surface) []string {
	var out []string
	for _, op := range s.BatchOps() {
		out = append(out, op.String())
	}
	return out
}

func TestUpdate_RemoveThenAppend(t *testing.T) {
	section := table.NewSection("s", rows("A", "B", "C")...)
	surface, manager := setup(t, section)
	surface.DisplayAll()

	manager.Update(true, func() {
		section.Remove(1)
		section.Add(table.NewRow(label, "D", table.WithID("D")))
	})

	assert.Equal(t, []string{"begin", "deleteRows[[0,1]]", "insertRows[[0,2]]", "end"}, batchOps(surface))
	assert.Empty(t, surface.Errors())
	assert.Equal(t, []int{3}, surface.Counts())
}

func TestUpdate_ReplaceAllSections(t *testing.T) {
	s1 := table.NewSection("S1", rows("a")...)
	s2 := table.NewSection("S2", rows("b", "c")...)
	surface, manager := setup(t, s1, s2)

	manager.Update(true, func() {
		manager.RemoveAll()
		manager.AddSection(table.NewSection("S3", rows("d")...))
	})

	assert.Equal(t, []string{"begin", "deleteSections[0 1]", "insertSections[0]", "end"}, batchOps(surface))
	assert.Empty(t, surface.Errors())
}

func TestUpdate_UsesConfiguredAnimation(t *testing.T) {
	section := table.NewSection("s", rows("a")...)
	surface := tabletest.NewSurfaceWithT(t)
	manager := table.NewManager(surface, table.WithAnimation(table.AnimationFade))
	manager.AddSection(section)
	surface.ReloadData()

	manager.Update(true, func() { section.Add(table.NewRow(label, "b")) })

	ops := surface.BatchOps()
	require.Len(t, ops, 4)
	assert.Equal(t, table.AnimationFade, ops[2].Animation)
}

func TestUpdate_WithoutAnimationReloads(t *testing.T) {
	section := table.NewSection("s", table.NewRow(measured, 30.0))
	surface, manager := setup(t, section)
	manager.HeightForRow(table.Position{})

	manager.Update(false, func() { section.Add(table.NewRow(label, "b")) })

	assert.Equal(t, []string{"reloadData"}, batchOps(surface))
	_, cached := manager.CachedHeight(section.Rows()[0])
	assert.False(t, cached, "full reload clears the height cache")
}

func TestUpdate_SectionReloadJoinsBatch(t *testing.T) {
	section := table.NewSection("s", rows("a", "b")...)
	surface, manager := setup(t, section)

	manager.Update(true, func() {
		section.Add(table.NewRow(label, "c"))
		section.Reload()
	})

	assert.Equal(t, []string{"begin", "reloadSections[0]", "end"}, batchOps(surface))
	assert.Empty(t, surface.Errors())
}

func TestUpdate_RowReloadUsesPreSessionIndex(t *testing.T) {
	section := table.NewSection("s", rows("a", "b", "c")...)
	surface, manager := setup(t, section)

	manager.Update(true, func() {
		section.Remove(0)
		section.ReloadRows(1)
	})

	assert.Equal(t, []string{"begin", "deleteRows[[0,0]]", "reloadRows[[0,2]]", "end"}, batchOps(surface))
	assert.Empty(t, surface.Errors())
}

func TestUpdate_MoveRowAcrossSections(t *testing.T) {
	s1 := table.NewSection("s1", rows("a", "b")...)
	s2 := table.NewSection("s2", rows("c")...)
	surface, manager := setup(t, s1, s2)

	manager.Update(true, func() {
		require.True(t, manager.MoveRow(table.Position{Section: 0, Row: 0}, table.Position{Section: 1, Row: 1}))
	})

	assert.Equal(t, []string{"begin", "deleteRows[[0,0]]", "insertRows[[1,1]]", "end"}, batchOps(surface))
	assert.Equal(t, []int{1, 2}, surface.Counts())
	assert.Empty(t, surface.Errors())
}

func TestUpdate_RowChangesInShiftedSection(t *testing.T) {
	s1 := table.NewSection("s1", rows("a")...)
	s2 := table.NewSection("s2", rows("b", "c")...)
	surface, manager := setup(t, s1, s2)

	manager.Update(true, func() {
		manager.RemoveSection(0)
		s2.Remove(0)
		s2.Add(table.NewRow(label, "d"))
		s2.Add(table.NewRow(label, "e"))
	})

	assert.Equal(t, []string{
		"begin",
		"deleteSections[0]",
		"deleteRows[[1,0]]",
		"insertRows[[0,1] [0,2]]",
		"end",
	}, batchOps(surface))
	assert.Empty(t, surface.Errors())
}

func TestUpdate_NestedUpdateIsDeferred(t *testing.T) {
	section := table.NewSection("s", rows("a")...)
	surface, manager := setup(t, section)
	var order []string

	manager.Update(true, func() {
		section.Add(table.NewRow(label, "b"))
		manager.Update(true, func() {
			order = append(order, "inner")
			section.Add(table.NewRow(label, "c"))
		})
		order = append(order, "outer")
	})

	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, []string{
		"begin", "insertRows[[0,1]]", "end",
		"begin", "insertRows[[0,2]]", "end",
	}, batchOps(surface))
	assert.False(t, manager.InSession())
	require.Len(t, surface.Errors(), 1)
	assert.Equal(t, tferrors.KindSession, surface.Errors()[0].Kind)
}

func TestUpdate_RejectedBatchFallsBackToReload(t *testing.T) {
	section := table.NewSection("s", rows("a")...)
	surface, manager := setup(t, section)
	surface.RejectEndUpdates = errors.New("rejected")

	manager.Update(true, func() { section.Add(table.NewRow(label, "b")) })

	require.Len(t, surface.Errors(), 1)
	assert.Equal(t, tferrors.KindBatch, surface.Errors()[0].Kind)
	ops := batchOps(surface)
	assert.Equal(t, "reloadData", ops[len(ops)-1])
}

func TestUpdate_EmptySessionDoesNotBatch(t *testing.T) {
	section := table.NewSection("s", rows("a")...)
	surface, manager := setup(t, section)

	manager.Update(true, func() {})

	assert.Empty(t, batchOps(surface))
}

func TestHeight_MeasuresOnceUntilReload(t *testing.T) {
	section := table.NewSection("s", table.NewRow(measured, 30.0))
	surface, manager := setup(t, section)
	surface.Separator = 1
	pos := table.Position{}

	assert.Equal(t, 31.0, manager.HeightForRow(pos))
	assert.Equal(t, 31.0, manager.HeightForRow(pos))
	assert.Equal(t, 1, manager.Stats().Measurements)
	assert.Equal(t, 1, manager.Stats().CacheHits)

	created := surface.Created()
	manager.Reload()
	manager.HeightForRow(pos)
	assert.Equal(t, 2, manager.Stats().Measurements)
	assert.Equal(t, created, surface.Created(), "the prototype survives the reload")
}

func TestHeight_Precedence(t *testing.T) {
	withDefault := measured
	withDefault.DefaultHeight = 70

	fixed := table.NewRow(measured, 30.0, table.WithHeight(10))
	fixed.HeightFunc(func() (float64, bool) { return 20, true })
	evaluated := table.NewRow(withDefault, 30.0).HeightFunc(func() (float64, bool) { return 20, true })
	declined := table.NewRow(withDefault, 30.0).HeightFunc(func() (float64, bool) { return 0, false })
	automatic := table.NewRow(measured, 30.0)

	section := table.NewSection("s", fixed, evaluated, declined, automatic)
	_, manager := setup(t, section)

	assert.Equal(t, 10.0, manager.HeightForRow(table.Position{Row: 0}))
	assert.Equal(t, 20.0, manager.HeightForRow(table.Position{Row: 1}))
	assert.Equal(t, 70.0, manager.HeightForRow(table.Position{Row: 2}))
	assert.Equal(t, 30.0, manager.HeightForRow(table.Position{Row: 3}))

	manager.SetAutomaticHeight(false)
	manager.InvalidateHeight(automatic)
	assert.Equal(t, table.Automatic, manager.HeightForRow(table.Position{Row: 3}))
}

func TestHeight_Estimates(t *testing.T) {
	withEstimate := measured
	withEstimate.EstimatedHeight = 55

	fixed := table.NewRow(measured, 30.0, table.WithHeight(12))
	estimator := table.NewRow(measured, 30.0).EstimatedHeightFunc(func() (float64, bool) { return 33, true })
	typed := table.NewRow(withEstimate, 30.0)
	cached := table.NewRow(measured, 40.0)
	fallback := table.NewRow(measured, 50.0)

	section := table.NewSection("s", fixed, estimator, typed, cached, fallback)
	_, manager := setup(t, section)
	manager.HeightForRow(table.Position{Row: 3})

	assert.Equal(t, 12.0, manager.EstimatedHeightForRow(table.Position{Row: 0}))
	assert.Equal(t, 33.0, manager.EstimatedHeightForRow(table.Position{Row: 1}))
	assert.Equal(t, 55.0, manager.EstimatedHeightForRow(table.Position{Row: 2}))
	assert.Equal(t, 40.0, manager.EstimatedHeightForRow(table.Position{Row: 3}))
	assert.Equal(t, float64(tabletest.DefaultEstimatedRowHeight), manager.EstimatedHeightForRow(table.Position{Row: 4}))
}

func TestHeight_HeadersAndFooters(t *testing.T) {
	titled := table.NewSection("titled")
	titled.HeaderTitle = "Header"
	plain := table.NewSection("plain")
	custom := table.NewSection("custom")
	custom.Header = &table.SectionView{ReuseKey: "H", NewView: func() table.View { return &tabletest.View{} }, Height: 28}
	custom.Footer = &table.SectionView{
		ReuseKey:   "F",
		NewView:    func() table.View { return &tabletest.View{} },
		HeightFunc: func(table.SupplementaryKind, int) (float64, bool) { return 18, true },
	}
	_, manager := setup(t, titled, plain, custom)

	assert.Equal(t, table.HeaderFooterHeight, manager.HeightForHeaderFooter(table.Header, 0))
	assert.Equal(t, 0.0, manager.HeightForHeaderFooter(table.Footer, 0))
	assert.Equal(t, 0.0, manager.HeightForHeaderFooter(table.Header, 1))
	assert.Equal(t, 28.0, manager.HeightForHeaderFooter(table.Header, 2))
	assert.Equal(t, 28.0, manager.EstimatedHeightForHeaderFooter(table.Header, 2))
	assert.Equal(t, 18.0, manager.HeightForHeaderFooter(table.Footer, 2))
	assert.Equal(t, table.Automatic, manager.EstimatedHeightForHeaderFooter(table.Footer, 2))
}

func TestHeight_MissingPrototypeIsReported(t *testing.T) {
	bare := table.Cell[string]{ReuseKey: "Bare", Configure: func(table.View, string, table.Position) {}}
	surface := tabletest.NewSurfaceWithT(t)
	surface.Declare("Bare", nil)
	manager := table.NewManager(surface)
	manager.AddSections(table.NewSection("s", table.NewRow(bare, "x")))

	assert.Equal(t, table.Automatic, manager.HeightForRow(table.Position{}))
	require.Len(t, surface.Errors(), 1)
	assert.Equal(t, tferrors.KindMeasure, surface.Errors()[0].Kind)
	assert.Equal(t, "Bare", surface.Errors()[0].ReuseKey)
	assert.Zero(t, manager.Stats().Measurements)
}

func TestRetention_EndDisplayAfterRemovalFiresOnce(t *testing.T) {
	ended := 0
	tracked := table.NewRow(label, "B", table.WithID("B")).OnDidEndDisplay(func(*table.Row) { ended++ })
	section := table.NewSection("s", table.NewRow(label, "A"), tracked, table.NewRow(label, "C"))
	surface, manager := setup(t, section)
	surface.DisplayAll()
	view := surface.ViewAt(table.Position{Row: 1})

	manager.Update(true, func() { section.Remove(1) })

	assert.Equal(t, 1, ended)
	manager.DidEndDisplay(view, table.Position{Row: 1})
	assert.Equal(t, 1, ended, "a second report is ignored")
	assert.Equal(t, 0, manager.Stats().PendingEndDisplay)
}

func TestRetention_EndDisplayOfLiveRow(t *testing.T) {
	ended := 0
	r := table.NewRow(label, "A").OnDidEndDisplay(func(*table.Row) { ended++ })
	surface, _ := setup(t, table.NewSection("s", r))
	surface.DisplayAll()

	surface.EndDisplay(table.Position{})

	assert.Equal(t, 1, ended)
}

func TestRetention_EndDisplayUsesViewBinding(t *testing.T) {
	ended := map[string]int{}
	section := table.NewSection("s", rows("a", "b", "c")...)
	for _, r := range section.Rows() {
		r.OnDidEndDisplay(func(r *table.Row) {
			id, _ := table.Model[string](r)
			ended[id]++
		})
	}
	surface, manager := setup(t, section)
	surface.DisplayAll()

	manager.Update(true, func() {
		section.Remove(0)
		section.ReloadRows(1)
	})

	assert.Equal(t, []string{"begin", "deleteRows[[0,0]]", "reloadRows[[0,2]]", "end"}, batchOps(surface))
	assert.Equal(t, map[string]int{"a": 1, "c": 1}, ended)
}

func TestRetention_HeaderEndDisplayAfterShift(t *testing.T) {
	ended := 0
	first := table.NewSection("first", rows("a")...)
	second := table.NewSection("second", rows("b")...)
	second.Header = &table.SectionView{
		ReuseKey:        "Header",
		NewView:         func() table.View { return &tabletest.View{} },
		OnDidEndDisplay: func(table.HeaderFooterEvent) { ended++ },
	}
	_, manager := setup(t, first, second)
	view := manager.ViewForHeaderFooter(table.Header, 1)
	require.NotNil(t, view)

	manager.Update(true, func() { manager.RemoveSection(0) })
	manager.DidEndDisplayHeaderFooter(table.Header, view, 1)

	assert.Equal(t, 1, ended)
}

func TestRetention_ReportedReloadEndsRemovedRow(t *testing.T) {
	ended := 0
	r := table.NewRow(label, "A").OnDidEndDisplay(func(*table.Row) { ended++ })
	surface, manager := setup(t, table.NewSection("s", r))
	surface.ReportReloadEnding = true
	surface.Display(table.Position{})

	manager.RemoveRow(table.Position{})
	manager.Reload()

	assert.Equal(t, 1, ended)
	assert.Equal(t, 0, manager.Stats().PendingEndDisplay)
	assert.Equal(t, 0, manager.Stats().Evicted)
}

func TestRetention_ReloadEvictsPending(t *testing.T) {
	ended := 0
	r := table.NewRow(label, "A").OnDidEndDisplay(func(*table.Row) { ended++ })
	section := table.NewSection("s", r)
	surface, manager := setup(t, section)
	view := surface.Display(table.Position{})

	manager.RemoveRow(table.Position{})
	assert.Equal(t, 1, manager.Stats().PendingEndDisplay)

	manager.Reload()
	assert.Equal(t, 0, manager.Stats().PendingEndDisplay)
	assert.Equal(t, 1, manager.Stats().Evicted)

	manager.DidEndDisplay(view, table.Position{})
	assert.Equal(t, 0, ended)
}

func TestRetention_RemovedSectionHeader(t *testing.T) {
	ended := 0
	section := table.NewSection("s", rows("a")...)
	section.Header = &table.SectionView{
		ReuseKey:        "Header",
		NewView:         func() table.View { return &tabletest.View{} },
		OnDidEndDisplay: func(table.HeaderFooterEvent) { ended++ },
	}
	_, manager := setup(t, section)
	view := manager.ViewForHeaderFooter(table.Header, 0)
	require.NotNil(t, view)

	manager.Update(true, func() { manager.RemoveSection(0) })
	manager.DidEndDisplayHeaderFooter(table.Header, view, 0)
	manager.DidEndDisplayHeaderFooter(table.Header, view, 0)

	assert.Equal(t, 1, ended)
}

func TestSelection_DefaultTapDeselectsAnimated(t *testing.T) {
	selected := false
	r := table.NewRow(label, "a").OnSelect(func(*table.Row) { selected = true })
	surface, manager := setup(t, table.NewSection("s", r))

	manager.DidSelectRow(table.Position{})

	assert.Equal(t, []tabletest.Deselection{{Position: table.Position{}, Animated: true}}, surface.Deselections())
	assert.False(t, selected)
}

func TestSelection_TapBehaviors(t *testing.T) {
	plain := table.NewRow(label, "a").OnTap(func(*table.Row) table.TapBehavior { return table.Deselect })
	surface, manager := setup(t, table.NewSection("s", plain))

	manager.DidSelectRow(table.Position{})

	assert.Equal(t, []tabletest.Deselection{{Position: table.Position{}, Animated: false}}, surface.Deselections())
}

func TestSelection_WillSelectRedirects(t *testing.T) {
	a := table.NewRow(label, "a").OnWillSelect(func(*table.Row) (table.Position, bool) {
		return table.Position{Row: 1}, true
	})
	b := table.NewRow(label, "b")
	veto := table.NewRow(label, "c").OnWillSelect(func(*table.Row) (table.Position, bool) {
		return table.Position{}, false
	})
	surface, _ := setup(t, table.NewSection("s", a, b, veto))

	require.NoError(t, surface.TapAt(table.Position{Row: 0}))
	require.NoError(t, surface.TapAt(table.Position{Row: 2}))

	got := surface.Deselections()
	require.Len(t, got, 1)
	assert.Equal(t, table.Position{Row: 1}, got[0].Position)
}

func TestSelection_HighlightPrecedence(t *testing.T) {
	never := label
	never.Highlight = table.HighlightNever

	static := table.NewRow(never, "a")
	static.SetShouldHighlight(true)
	override := table.NewRow(label, "b")
	override.SetShouldHighlight(false)
	callback := table.NewRow(label, "c").OnShouldHighlight(func(*table.Row) bool { return false })
	plain := table.NewRow(label, "d")
	_, manager := setup(t, table.NewSection("s", static, override, callback, plain))

	assert.False(t, manager.ShouldHighlightRow(table.Position{Row: 0}))
	assert.False(t, manager.ShouldHighlightRow(table.Position{Row: 1}))
	assert.False(t, manager.ShouldHighlightRow(table.Position{Row: 2}))
	assert.True(t, manager.ShouldHighlightRow(table.Position{Row: 3}))
}

func TestEditing_Defaults(t *testing.T) {
	plain := table.NewRow(label, "a")
	deleted := 0
	editable := table.NewRow(label, "b").
		OnEditActions(func(*table.Row) []table.EditAction {
			return []table.EditAction{table.DeleteAction()}
		}).
		OnDelete(func(*table.Row) { deleted++ })
	movable := table.NewRow(label, "c").
		CanMove(func(*table.Row) bool { return true }).
		ShouldIndentWhileEditing(func(*table.Row) bool { return false })
	_, manager := setup(t, table.NewSection("s", plain, editable, movable))

	assert.False(t, manager.CanEditRow(table.Position{Row: 0}))
	assert.Nil(t, manager.EditActionsForRow(table.Position{Row: 0}))
	assert.False(t, manager.CanMoveRow(table.Position{Row: 0}))
	assert.True(t, manager.ShouldIndentWhileEditing(table.Position{Row: 0}))

	assert.True(t, manager.CanEditRow(table.Position{Row: 1}))
	manager.CommitEdit(table.EditingInsert, table.Position{Row: 1})
	manager.CommitEdit(table.EditingDelete, table.Position{Row: 1})
	assert.Equal(t, 1, deleted)

	assert.True(t, manager.CanMoveRow(table.Position{Row: 2}))
	assert.False(t, manager.ShouldIndentWhileEditing(table.Position{Row: 2}))
}

func TestEditing_RequiresActions(t *testing.T) {
	empty := table.NewRow(label, "a").OnEditActions(func(*table.Row) []table.EditAction { return nil })
	deleteOnly := table.NewRow(label, "b").OnDelete(func(*table.Row) {})
	panicking := table.NewRow(label, "c").OnEditActions(func(*table.Row) []table.EditAction { panic("boom") })
	surface, manager := setup(t, table.NewSection("s", empty, deleteOnly, panicking))

	assert.False(t, manager.CanEditRow(table.Position{Row: 0}), "empty action list")
	assert.False(t, manager.CanEditRow(table.Position{Row: 1}), "delete handler alone")
	assert.False(t, manager.CanEditRow(table.Position{Row: 2}), "panicking action source")
	require.Len(t, surface.CallbackErrors(), 1)
	assert.Equal(t, "onEditActions", surface.CallbackErrors()[0].Event)
}

func TestIndexTitles(t *testing.T) {
	a := table.NewSection("a")
	a.IndexTitle = "A"
	b := table.NewSection("b")
	c := table.NewSection("c")
	c.IndexTitle = "C"
	_, manager := setup(t, a, b, c)

	assert.Equal(t, []string{"A", "C"}, manager.SectionIndexTitles())
	assert.Equal(t, 2, manager.SectionForIndexTitle("C", 1))
	assert.Equal(t, 0, manager.SectionForIndexTitle("Z", 5))
}

func TestRegistration_Sources(t *testing.T) {
	t.Run("template", func(t *testing.T) {
		surface := tabletest.NewSurfaceWithT(t)
		manager := table.NewManager(surface, table.WithTemplates(table.Templates{
			"Label": func() table.View { return &tabletest.View{Detail: "template"} },
		}))
		manager.AddSection(table.NewSection("s", rows("a")...))
		surface.ReloadData()

		view := surface.Display(table.Position{}).(*tabletest.View)
		assert.Equal(t, "template", view.Detail)
		assert.Equal(t, 1, manager.Stats().Registrations)
	})

	t.Run("declared", func(t *testing.T) {
		surface := tabletest.NewSurfaceWithT(t)
		surface.Declare("Label", func() table.View { return &tabletest.View{} })
		manager := table.NewManager(surface)
		manager.AddSection(table.NewSection("s", rows("a")...))
		surface.ReloadData()

		require.NotNil(t, surface.Display(table.Position{}))
		assert.Equal(t, 0, manager.Stats().Registrations)
	})

	t.Run("missing", func(t *testing.T) {
		orphan := table.Cell[string]{ReuseKey: "Orphan", Configure: func(table.View, string, table.Position) {}}
		surface, manager := setup(t, table.NewSection("s", table.NewRow(orphan, "a")))

		assert.Nil(t, manager.ViewForRow(table.Position{}))
		require.Len(t, surface.Errors(), 1)
		assert.Equal(t, tferrors.KindRegister, surface.Errors()[0].Kind)
		assert.Equal(t, "Orphan", surface.Errors()[0].ReuseKey)
	})
}

func TestDispatch_OutOfRangeIsReported(t *testing.T) {
	surface, manager := setup(t, table.NewSection("s", rows("a")...))

	assert.Equal(t, 0, manager.RowCount(4))
	assert.Equal(t, 0.0, manager.HeightForRow(table.Position{Row: 9}))
	assert.Equal(t, "", manager.TitleForHeader(2))
	assert.Nil(t, manager.ViewForRow(table.Position{Section: 1}))

	require.Len(t, surface.Errors(), 4)
	for _, err := range surface.Errors() {
		assert.Equal(t, tferrors.KindIndex, err.Kind)
	}
}

func TestDispatch_CallbackPanicIsReported(t *testing.T) {
	r := table.NewRow(label, "a", table.WithID("a")).OnTap(func(*table.Row) table.TapBehavior { panic("boom") })
	surface, manager := setup(t, table.NewSection("s", r))

	manager.DidSelectRow(table.Position{})

	require.Len(t, surface.CallbackErrors(), 1)
	assert.Equal(t, "onTap", surface.CallbackErrors()[0].Event)
	assert.Equal(t, "a", surface.CallbackErrors()[0].Row)
	assert.Len(t, surface.Deselections(), 1)
}

func TestDispatch_DequeueBindsRow(t *testing.T) {
	dequeued := 0
	r := table.NewRow(label, "a", table.WithAccessory(table.AccessoryCheckmark)).
		OnDequeue(func(*table.Row) { dequeued++ })
	surface, manager := setup(t, table.NewSection("s", r))

	view := surface.Display(table.Position{}).(*tabletest.View)

	assert.Equal(t, 1, dequeued)
	assert.Equal(t, "a", view.Text)
	assert.Equal(t, table.AccessoryCheckmark, view.Accessory)
	assert.Equal(t, float64(tabletest.DefaultWidth), view.Size().Width)
	assert.Equal(t, view.ViewID(), r.BoundView())
	assert.Same(t, view, manager.ViewFor(r))
}

func TestManager_Lookups(t *testing.T) {
	s1 := table.NewSection("first", rows("a", "b")...)
	s2 := table.NewSection("second", rows("c")...)
	surface, manager := setup(t, s1, s2)

	r, pos, ok := manager.RowWithID("c")
	require.True(t, ok)
	assert.Equal(t, table.Position{Section: 1, Row: 0}, pos)
	got, ok := manager.PositionOf(r)
	assert.True(t, ok)
	assert.Equal(t, pos, got)

	sec, ok := manager.SectionWithID("second")
	require.True(t, ok)
	assert.Same(t, s2, sec)
	idx, ok := s2.Index()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Len(t, manager.Rows(), 3)

	manager.ScrollToLastRow(table.ScrollBottom, false)
	assert.Equal(t, []table.Position{{Section: 1, Row: 0}}, surface.Scrolls())
}

func TestManager_SectionOwnership(t *testing.T) {
	section := table.NewSection("s")
	_, first := setup(t, section)
	_, second := setup(t)

	second.AddSection(section)

	assert.Empty(t, first.Sections())
	assert.Same(t, second, section.Manager())
}

func TestManager_AddRowsAt(t *testing.T) {
	_, manager := setup(t)

	manager.AddRowsAt(-1, rows("a")...)
	require.Len(t, manager.Sections(), 1, "negative index creates a section when there is none")

	manager.AddRowsAt(-1, rows("b")...)
	manager.AddRowsAt(0, rows("c")...)
	manager.AddRowsAt(7, rows("d")...)

	sec, _ := manager.Section(0)
	assert.Equal(t, 3, sec.Count())
	assert.False(t, manager.IsEmpty())

	added := manager.AddRows(nil, rows("e")...)
	assert.True(t, manager.HasSection(added))
	assert.Len(t, manager.Sections(), 2)
}

func TestManager_IDHelpers(t *testing.T) {
	s1 := table.NewSection("first", rows("a", "b")...)
	s2 := table.NewSection("second", rows("c", "d")...)
	surface, manager := setup(t, s1, s2)

	assert.Len(t, manager.RowsWithIDs("a", "d", "zz"), 2)
	assert.Equal(t, []*table.Section{s2}, manager.SectionsWithIDs("second"))

	idx, ok := s2.IndexOfRowWithID("d")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []int{0, 1}, s1.IndexesOfRowsWithIDs("b", "a"))

	manager.Update(true, func() {
		manager.ReloadRowWithID("d")
		manager.ReloadSectionWithID("first")
	})
	assert.Equal(t, []string{"begin", "reloadSections[0]", "reloadRows[[1,1]]", "end"}, batchOps(surface))

	removed, ok := manager.RemoveSectionWithID("first")
	assert.True(t, ok)
	assert.Same(t, s1, removed)
	assert.Empty(t, surface.Errors())
}

func TestManager_RemoveWithIDs(t *testing.T) {
	s1 := table.NewSection("first", rows("a", "b")...)
	s2 := table.NewSection("second", rows("c", "d")...)
	s3 := table.NewSection("third", rows("e")...)
	surface, manager := setup(t, s1, s2, s3)

	var removedRows []*table.Row
	manager.Update(true, func() {
		removedRows = manager.RemoveRowsWithIDs("b", "c", "zz")
	})
	require.Len(t, removedRows, 2)
	assert.Nil(t, removedRows[0].Section())
	assert.Nil(t, removedRows[1].Section())
	assert.Equal(t, []string{"begin", "deleteRows[[0,1]]", "deleteRows[[1,0]]", "end"}, batchOps(surface))
	assert.Equal(t, []int{1, 1, 1}, surface.Counts())

	surface.ResetOps()
	var removedSections []*table.Section
	manager.Update(true, func() {
		removedSections = manager.RemoveSectionsWithIDs("third", "first", "missing")
	})
	assert.ElementsMatch(t, []*table.Section{s1, s3}, removedSections)
	assert.Nil(t, s1.Manager())
	assert.Equal(t, []*table.Section{s2}, manager.Sections())
	assert.Equal(t, []string{"begin", "deleteSections[0 2]", "end"}, batchOps(surface))
	assert.Nil(t, manager.RemoveSectionsWithIDs("missing"))
	assert.Empty(t, surface.Errors())
}
