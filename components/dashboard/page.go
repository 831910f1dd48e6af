package dashboard

// NavSet names one of the two navigation control sets.
type NavSet string

const (
	NavDesktop NavSet = "desktop"
	NavMobile  NavSet = "mobile"
)

var navSets = []NavSet{NavDesktop, NavMobile}

// SectionView is the container of a section.
type SectionView struct {
	ID        SectionID  `json:"id"`
	Label     string     `json:"label"`
	Category  CategoryID `json:"category,omitempty"`
	Container string     `json:"container"`
	Hidden    bool       `json:"hidden"`
}

// Mount is a replaceable region inside a section. Model is replaced
// wholesale on every render.
type Mount struct {
	ID       MountID   `json:"id"`
	Section  SectionID `json:"section"`
	Model    any       `json:"model,omitempty"`
	Revision uint64    `json:"revision"`
}

// NavControl is a navigation button. Section controls carry data-section,
// category headers carry only data-category.
type NavControl struct {
	Section  SectionID  `json:"section,omitempty"`
	Category CategoryID `json:"category,omitempty"`
	Label    string     `json:"label"`
	Active   bool       `json:"active"`
}

// CategoryState tracks a dropdown's open/closed state.
type CategoryState struct {
	ID    CategoryID `json:"id"`
	Label string     `json:"label"`
	Open  bool       `json:"open"`
}

// Page is the document model a workspace renders into.
type Page struct {
	Title      string
	sections   []*SectionView
	sectionIdx map[SectionID]*SectionView
	mounts     map[MountID]*Mount
	nav        map[NavSet][]*NavControl
	categories []*CategoryState
}

// SectionContainerID returns the container id of a section.
func SectionContainerID(id SectionID) string {
	return string(id) + "-section"
}

// NewPage builds the document model from a manifest. Every section starts
// hidden.
func NewPage(doc *PageManifest) *Page {
	page := &Page{
		Title:      doc.Title,
		sectionIdx: make(map[SectionID]*SectionView, len(doc.Sections)),
		mounts:     make(map[MountID]*Mount),
		nav:        make(map[NavSet][]*NavControl, len(navSets)),
	}
	for _, cat := range doc.Categories {
		page.categories = append(page.categories, &CategoryState{ID: cat.ID, Label: cat.Label})
	}
	for _, section := range doc.Sections {
		view := &SectionView{
			ID:        section.ID,
			Label:     section.Label,
			Category:  section.Category,
			Container: SectionContainerID(section.ID),
			Hidden:    true,
		}
		page.sections = append(page.sections, view)
		page.sectionIdx[section.ID] = view
		for _, mount := range section.Mounts {
			page.mounts[mount] = &Mount{ID: mount, Section: section.ID}
		}
	}
	for _, set := range navSets {
		for _, cat := range doc.Categories {
			page.nav[set] = append(page.nav[set], &NavControl{Category: cat.ID, Label: cat.Label})
		}
		for _, section := range doc.Sections {
			page.nav[set] = append(page.nav[set], &NavControl{
				Section:  section.ID,
				Category: section.Category,
				Label:    section.Label,
			})
		}
	}
	return page
}

// HasMount reports whether a mount point exists.
func (p *Page) HasMount(id MountID) bool {
	_, ok := p.mounts[id]
	return ok
}

// Replace swaps the model of a mount. Missing mounts are ignored.
func (p *Page) Replace(id MountID, model any) bool {
	mount, ok := p.mounts[id]
	if !ok {
		return false
	}
	mount.Model = model
	mount.Revision++
	return true
}

// Mount returns a copy of a mount.
func (p *Page) Mount(id MountID) (Mount, bool) {
	mount, ok := p.mounts[id]
	if !ok {
		return Mount{}, false
	}
	return *mount, true
}

// HasSection reports whether a section container exists.
func (p *Page) HasSection(id SectionID) bool {
	_, ok := p.sectionIdx[id]
	return ok
}

func (p *Page) hideAll() {
	for _, section := range p.sections {
		section.Hidden = true
	}
}

func (p *Page) unhide(id SectionID) {
	if section, ok := p.sectionIdx[id]; ok {
		section.Hidden = false
	}
}

func (p *Page) clearActive() {
	for _, set := range navSets {
		for _, control := range p.nav[set] {
			control.Active = false
		}
	}
}

// setActive marks the controls of section, and the category header of
// category, in every control set.
func (p *Page) setActive(section SectionID, category CategoryID) {
	for _, set := range navSets {
		for _, control := range p.nav[set] {
			switch {
			case control.Section != "":
				control.Active = control.Section == section
			case category != "":
				control.Active = control.Category == category
			}
		}
	}
}

func (p *Page) toggleCategory(id CategoryID) (bool, bool) {
	for _, cat := range p.categories {
		if cat.ID == id {
			cat.Open = !cat.Open
			return cat.Open, true
		}
	}
	return false, false
}

// PageView is a read-only copy of a page.
type PageView struct {
	Title      string                  `json:"title"`
	Sections   []SectionView           `json:"sections"`
	Mounts     map[string]Mount        `json:"mounts"`
	Nav        map[NavSet][]NavControl `json:"nav"`
	Categories []CategoryState         `json:"categories"`
}

// View copies the page. Mount models are replaced wholesale on render so a
// shallow copy is stable.
func (p *Page) View() PageView {
	view := PageView{
		Title:  p.Title,
		Mounts: make(map[string]Mount, len(p.mounts)),
		Nav:    make(map[NavSet][]NavControl, len(p.nav)),
	}
	for _, section := range p.sections {
		view.Sections = append(view.Sections, *section)
	}
	for id, mount := range p.mounts {
		view.Mounts[string(id)] = *mount
	}
	for set, controls := range p.nav {
		copied := make([]NavControl, len(controls))
		for i, control := range controls {
			copied[i] = *control
		}
		view.Nav[set] = copied
	}
	for _, cat := range p.categories {
		view.Categories = append(view.Categories, *cat)
	}
	return view
}
