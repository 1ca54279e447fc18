package render

// tmplSrc — шаблоны форумных фрагментов.
// Один контейнер на ветку, один узел на пост; ответы — во вложенном
// контейнере replies своего непосредственного родителя.
const tmplSrc = `
{{- define "forum" -}}
<div class="forum" data-locale="{{.Locale}}">
{{- range .Threads}}{{template "thread" .}}{{end}}
</div>
{{- end -}}

{{- define "thread" -}}
<div class="thread" data-thread-id="{{.ID}}">
{{- if .ShowCount}}<div class="thread-count">{{.Count}}</div>{{end -}}
{{- range .Posts}}{{template "post" .}}{{end}}
</div>
{{- end -}}

{{- define "post" -}}
<div class="post" data-post-id="{{.ID}}">
<div class="post-head"><span class="subject">{{.Subject}}</span> <span class="verb">{{.Verb}}</span></div>
<div class="post-meta"><span class="poster">{{.Poster}}</span>
{{- if .Org}} <span class="org">{{.Org}}</span>{{end}}
{{- if .Level}} <span class="level">{{.Level}}</span>{{end}}
{{- if .Date}} <span class="date">{{.Date}}</span>{{end}}</div>
<div class="post-body">{{.Body}}</div>
{{- if .ItemLink}}<a class="item-link" href="{{.ItemLink}}">View item</a>{{end -}}
{{- if .Reply}}<button class="reply" data-reply-to="{{.ID}}">Reply</button>{{end -}}
{{- if .Replies}}<div class="replies">{{range .Replies}}{{template "post" .}}{{end}}</div>{{end}}
</div>
{{- end -}}
`
