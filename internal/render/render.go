// render превращает восстановленные ветки обсуждений в HTML-фрагменты.
//
// Группировка ответов в дерево — чистая и тестируемая (BuildTree);
// сам рендер — отдельный шаг поверх html/template.
package render

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/locreview/discussions-service/internal/models"
	"github.com/locreview/discussions-service/internal/service"
)

// Context — именованный режим рендера. Каждый режим выбирает
// фиксированную комбинацию опций (вместо ad-hoc объектов опций).
type Context int

const (
	// MainView — основной форумный вид.
	MainView Context = iota
	// Summary — сводка: только счётчики, разметка не строится.
	Summary
	// InfoPanel — фрагмент инфо-панели одного поста.
	InfoPanel
	// ReplyPreview — предпросмотр ветки в форме ответа.
	ReplyPreview
)

// options — фиксированная запись конфигурации режима.
type options struct {
	itemLink    bool // ссылка на обсуждаемый элемент
	replyButton bool // кнопка ответа
	applyFilter bool // применять внешний предикат фильтрации
	threadCount bool // счётчик постов ветки
	emit        bool // строить ли разметку вообще
}

func (c Context) opts() options {
	switch c {
	case MainView:
		return options{itemLink: true, replyButton: true, applyFilter: true, threadCount: true, emit: true}
	case InfoPanel:
		return options{replyButton: true, emit: true}
	case ReplyPreview:
		return options{emit: true}
	}

	// Summary: только счётчики.
	return options{}
}

// Filter — внешний предикат фильтрации веток (по корневому посту).
type Filter func(root models.Post) bool

// PostView — узел дерева постов одной ветки.
type PostView struct {
	Post    models.Post
	Replies []*PostView
}

// BuildTree перевешивает ответы под непосредственного родителя.
// Посты с невидимым родителем остаются прямо под контейнером ветки.
// Каждый пост попадает в дерево ровно один раз.
func BuildTree(posts []models.Post) []*PostView {
	nodes := make(map[int64]*PostView, len(posts))
	order := make([]*PostView, 0, len(posts))

	for _, p := range posts {
		n := &PostView{Post: p}
		nodes[p.ID] = n
		order = append(order, n)
	}

	var top []*PostView
	for _, n := range order {
		if n.Post.ParentID >= 0 {
			if parent, ok := nodes[n.Post.ParentID]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		top = append(top, n)
	}

	return top
}

// SummaryView — сводка по текущему индексу (режим Summary).
type SummaryView struct {
	Locale      string
	Threads     int
	Posts       int
	LastRefresh time.Time
}

// Summarize — счётчики без разметки.
func Summarize(ix *service.Index) SummaryView {
	return SummaryView{
		Locale:      ix.Locale,
		Threads:     len(ix.Order),
		Posts:       len(ix.Posts),
		LastRefresh: ix.LastRefresh,
	}
}

// Renderer — html/template-рендер форумных фрагментов.
type Renderer struct {
	tmpl *template.Template
}

// New парсит шаблоны; паника при битом шаблоне (ошибка программиста).
func New() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("forum").Parse(tmplSrc))}
}

// Forum рендерит все ветки индекса в режиме c.
// Ветки упорядочены «новые первыми» по позиции в исходной выборке;
// фильтр применяется только если режим это предусматривает.
func (r *Renderer) Forum(c Context, ix *service.Index, filter Filter) (template.HTML, error) {
	opt := c.opts()
	if !opt.emit {
		return "", nil
	}

	threads := ix.ThreadList()
	views := make([]threadView, 0, len(threads))

	for _, th := range threads {
		if opt.applyFilter && filter != nil {
			root, ok := ix.Root(th.ID)
			if !ok || !filter(root) {
				continue
			}
		}

		views = append(views, newThreadView(th, opt))
	}

	return r.execute("forum", forumView{Locale: ix.Locale, Threads: views})
}

// Thread рендерит одну ветку (инфо-панель, предпросмотр ответа).
func (r *Renderer) Thread(c Context, ix *service.Index, threadID string) (template.HTML, error) {
	opt := c.opts()
	if !opt.emit {
		return "", nil
	}

	posts, ok := ix.Threads[threadID]
	if !ok {
		return "", fmt.Errorf("render: unknown thread %q", threadID)
	}

	return r.execute("thread", newThreadView(service.Thread{ID: threadID, Posts: posts}, opt))
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render: %s: %w", name, err)
	}

	return template.HTML(b.String()), nil
}

// Модель данных шаблонов.

type forumView struct {
	Locale  string
	Threads []threadView
}

type threadView struct {
	ID        string
	Count     int
	ShowCount bool
	Posts     []*postNode
}

type postNode struct {
	ID       int64
	Subject  string
	Verb     string
	Poster   string
	Org      string
	Level    string
	Date     string
	Body     template.HTML
	ItemLink string
	Reply    bool
	Replies  []*postNode
}

// posterPlaceholder — плейсхолдер при отсутствии метаданных автора.
const posterPlaceholder = "(poster no longer active)"

func newThreadView(th service.Thread, opt options) threadView {
	tree := BuildTree(th.Posts)

	nodes := make([]*postNode, 0, len(tree))
	for _, n := range tree {
		nodes = append(nodes, newPostNode(n, opt))
	}

	return threadView{
		ID:        th.ID,
		Count:     len(th.Posts),
		ShowCount: opt.threadCount,
		Posts:     nodes,
	}
}

func newPostNode(v *PostView, opt options) *postNode {
	p := v.Post

	node := &postNode{
		ID:      p.ID,
		Subject: p.Subject,
		Verb:    p.PostType.Label(),
		Poster:  posterPlaceholder,
		// Text — доверенный HTML-фрагмент апстрима.
		Body:  template.HTML(p.Text),
		Reply: opt.replyButton,
	}

	if p.Poster != nil {
		node.Poster = p.Poster.Name
		node.Org = p.Poster.Org
		node.Level = p.Poster.Level.Label()
	}

	if !p.Date.IsZero() {
		node.Date = p.Date.UTC().Format("2006-01-02 15:04")
	}

	if opt.itemLink && p.XPath != "" {
		node.ItemLink = "#/" + url.PathEscape(p.Locale) + "//" + url.PathEscape(p.XPath)
	}

	for _, child := range v.Replies {
		node.Replies = append(node.Replies, newPostNode(child, opt))
	}

	return node
}
