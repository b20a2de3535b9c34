package table

import (
	stderrors "errors"

	"github.com/go-drift/tableflow/pkg/errors"
)

var errNoPrototype = stderrors.New("surface returned no prototype view")

// rowHeight resolves the real height of r. Sources are consulted in order:
// fixed height, height evaluator, type default, automatic measurement. When
// none applies the surface sizes the row itself.
func (m *Manager) rowHeight(r *Row, pos Position) float64 {
	if h, ok := r.Height(); ok {
		return h
	}
	if r.heightFn != nil {
		var h float64
		var ok bool
		if m.safeCall("heightFunc", r.label(), func() { h, ok = r.heightFn() }) && ok {
			return h
		}
	}
	if r.bind.defaultHeight > 0 {
		return r.bind.defaultHeight
	}
	if m.automaticHeight {
		if h, ok := m.measure(r, pos); ok {
			return h
		}
	}
	return Automatic
}

// estimatedRowHeight follows the same order with estimate sources and falls
// back to a cached measurement, then to the surface default.
func (m *Manager) estimatedRowHeight(r *Row) float64 {
	if h, ok := r.Height(); ok {
		return h
	}
	if r.estimator != nil {
		var h float64
		var ok bool
		if m.safeCall("estimatedHeightFunc", r.label(), func() { h, ok = r.estimator() }) && ok {
			return h
		}
	}
	if r.bind.estimatedHeight > 0 {
		return r.bind.estimatedHeight
	}
	if h, ok := m.heightCache[r.serial]; ok {
		return h
	}
	return m.surface.EstimatedRowHeight()
}

// measure lays out a prototype view bound to r at the content width and
// caches the fitting height plus the separator.
func (m *Manager) measure(r *Row, pos Position) (float64, bool) {
	if h, ok := m.heightCache[r.serial]; ok {
		m.stats.CacheHits++
		return h, true
	}
	proto := m.prototype(r)
	if proto == nil {
		return 0, false
	}

	proto.PrepareForReuse()
	ok := m.safeCall("configure", r.label(), func() { r.bind.configure(proto, pos) })
	if !ok {
		return 0, false
	}
	size := proto.Size()
	proto.SetSize(Size{Width: m.surface.ContentWidth(), Height: size.Height})
	proto.LayoutIfNeeded()

	h := proto.FittingHeight()
	if h <= 0 {
		h = proto.Size().Height
	}
	h += m.surface.SeparatorHeight()

	m.heightCache[r.serial] = h
	m.stats.Measurements++
	return h, true
}

// prototype returns the cached off-screen view for the row's reuse key.
func (m *Manager) prototype(r *Row) View {
	key := r.bind.reuseKey
	if v, ok := m.prototypes[key]; ok {
		return v
	}
	if !m.register(r) {
		return nil
	}
	v := m.surface.Prototype(key)
	if v == nil {
		errors.Report(&errors.TableError{
			Op:       "table.Manager.HeightForRow",
			Kind:     errors.KindMeasure,
			ReuseKey: key,
			Err:      errNoPrototype,
		})
		return nil
	}
	m.prototypes[key] = v
	return v
}

// CachedHeight returns the measured height cached for r.
func (m *Manager) CachedHeight(r *Row) (float64, bool) {
	h, ok := m.heightCache[r.serial]
	return h, ok
}

// InvalidateHeight drops the cached measurement of r.
func (m *Manager) InvalidateHeight(r *Row) {
	delete(m.heightCache, r.serial)
}

// headerFooterHeight resolves a header or footer height: the view's
// evaluator, then its static height, then automatic sizing. Title-only
// sections get HeaderFooterHeight and empty ones zero.
func (m *Manager) headerFooterHeight(kind SupplementaryKind, section int, estimated bool) float64 {
	s, ok := m.sectionAt("table.Manager.HeightForHeaderFooter", section)
	if !ok {
		return 0
	}
	v, title := s.supplementary(kind)
	if v != nil {
		fn, static := v.HeightFunc, v.Height
		if estimated {
			fn, static = v.EstimatedHeightFunc, v.EstimatedHeight
		}
		if fn != nil {
			if h, ok := fn(kind, section); ok {
				return h
			}
		}
		if static > 0 {
			return static
		}
		if estimated && v.Height > 0 {
			return v.Height
		}
		return Automatic
	}
	if title != "" {
		return HeaderFooterHeight
	}
	return 0
}

func (s *Section) supplementary(kind SupplementaryKind) (*SectionView, string) {
	if kind == Footer {
		return s.Footer, s.FooterTitle
	}
	return s.Header, s.HeaderTitle
}
