package web

import (
	"net/url"
	"strconv"
	"time"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

type LayoutProps struct {
	Title string
	// User is nil for anonymous visitors.
	User *ports.Principal
}

func navbar(props LayoutProps) g.Node {
	var right g.Node
	switch {
	case props.User == nil:
		right = Div(
			A(Href("/login"), g.Text("Login")),
		)
	default:
		right = Div(Class("row"),
			g.If(props.User.Role == domain.RoleAdmin, A(Href("/admin"), g.Text("Dashboard"))),
			Span(g.Textf("Signed in as %s", props.User.Email)),
			form(Method("post"), Action("/logout"), Class("inline"),
				Button(Type("submit"), g.Text("Logout")),
			),
		)
	}

	return Nav(Class("nav"),
		Div(Class("nav-left"),
			Div(Class("brand"), A(Href("/"), g.Text("Portfolio"))),
			A(Href("/blog"), g.Text("Blog")),
		),
		Div(Class("nav-right"), right),
	)
}

func layout(props LayoutProps, children ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(props.Title)),
			),
			Body(
				Div(Class("container"),
					navbar(props),
					Main(g.Group(children)),
				),
				Footer(Class("footer"), Small(g.Textf("© %d", time.Now().Year()))),
			),
		),
	)
}

func blogPage(props LayoutProps, page *domain.ArticlePage, search, tag string) g.Node {
	items := make([]g.Node, 0, len(page.Data))
	for _, a := range page.Data {
		items = append(items, articleCard(a))
	}

	var listing g.Node = P(g.Text("No articles yet."))
	if len(items) > 0 {
		listing = Ul(Class("articles"), g.Group(items))
	}

	return layout(props,
		H1(g.Text("Blog")),
		form(Method("get"), Action("/blog"), Class("search"),
			Input(Type("search"), Name("search"), Value(search), Placeholder("Search articles")),
			g.If(tag != "", Input(Type("hidden"), Name("tag"), Value(tag))),
			Button(Type("submit"), g.Text("Search")),
		),
		g.If(tag != "", P(g.Textf("Tagged %q", tag), g.Text(" "), A(Href("/blog"), g.Text("clear")))),
		listing,
		pager(page.Pagination, search, tag),
	)
}

func articleCard(a domain.Article) g.Node {
	tags := make([]g.Node, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, A(Class("tag"), Href("/blog?"+url.Values{"tag": {t}}.Encode()), g.Text("#"+t)))
	}
	return Li(
		H2(A(Href("/blog/"+a.ID), g.Text(a.Title))),
		P(g.Text(a.Description)),
		Small(g.Textf("%d views · %d likes", a.Views, a.Likes)),
		g.If(len(tags) > 0, Div(Class("tags"), g.Group(tags))),
	)
}

func pager(p domain.Pagination, search, tag string) g.Node {
	link := func(page int, label string) g.Node {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		if search != "" {
			q.Set("search", search)
		}
		if tag != "" {
			q.Set("tag", tag)
		}
		return A(Href("/blog?"+q.Encode()), g.Text(label))
	}

	return Div(Class("pager"),
		g.If(p.HasPrevious, link(p.CurrentPage-1, "← Newer")),
		Span(g.Textf("Page %d of %d", p.CurrentPage, max(p.TotalPages, 1))),
		g.If(p.HasNext, link(p.CurrentPage+1, "Older →")),
	)
}

func articlePage(props LayoutProps, a *domain.Article) g.Node {
	comments := make([]g.Node, 0, len(a.Comments))
	for _, cm := range a.Comments {
		author := cm.Name
		if author == "" {
			author = cm.Email
		}
		comments = append(comments, Li(
			P(g.Text(cm.Content)),
			Small(g.Textf("%s, %s", author, cm.CreatedAt.Format("2 Jan 2006"))),
		))
	}

	var published string
	if a.PublishedAt != nil {
		published = a.PublishedAt.Format("2 Jan 2006")
	}

	return layout(props,
		Article(
			H1(g.Text(a.Title)),
			g.If(published != "", Small(g.Text("Published "+published))),
			g.If(a.Image != nil, Img(Src(deref(a.Image)), Alt(a.Title))),
			P(Class("lead"), g.Text(a.Description)),
			Div(Class("content"), g.Text(a.Content)),
			P(g.Textf("%d views · %d likes", a.Views, a.Likes)),
			form(Method("post"), Action("/blog/"+a.ID+"/like"),
				Button(Type("submit"), g.Text("Like")),
			),
		),
		Section(
			H2(g.Textf("Comments (%d)", len(a.Comments))),
			g.If(len(comments) > 0, Ul(Class("comments"), g.Group(comments))),
			g.If(props.User != nil,
				form(Method("post"), Action("/comment/"+a.ID),
					Textarea(Name("content"), Required(), Placeholder("Leave a comment")),
					Input(Type("text"), Name("name"), Placeholder("Display name (optional)")),
					Button(Type("submit"), g.Text("Comment")),
				),
			),
			g.If(props.User == nil,
				P(A(Href("/login?"+url.Values{"callbackUrl": {"/blog/" + a.ID}}.Encode()), g.Text("Sign in")), g.Text(" to comment or like.")),
			),
		),
	)
}

func loginPage(props LayoutProps, callbackURL, errMsg string) g.Node {
	return layout(props,
		H1(g.Text("Sign in")),
		g.If(errMsg != "", P(Class("error"), g.Text(errMsg))),
		Section(
			H2(g.Text("Readers")),
			form(Method("post"), Action("/login/visitor"),
				Input(Type("hidden"), Name("callbackUrl"), Value(callbackURL)),
				Input(Type("email"), Name("email"), Required(), Placeholder("you@example.com")),
				Button(Type("submit"), g.Text("Continue")),
			),
		),
		Section(
			H2(g.Text("Admin")),
			form(Method("post"), Action("/login"),
				Input(Type("hidden"), Name("callbackUrl"), Value(callbackURL)),
				Input(Type("email"), Name("email"), Required(), Placeholder("Email")),
				Input(Type("password"), Name("password"), Required(), Placeholder("Password")),
				Button(Type("submit"), g.Text("Sign in")),
			),
			P(A(Href("/register"), g.Text("Create an admin account"))),
		),
	)
}

func registerPage(props LayoutProps, errMsg string) g.Node {
	return layout(props,
		H1(g.Text("Create an admin account")),
		g.If(errMsg != "", P(Class("error"), g.Text(errMsg))),
		form(Method("post"), Action("/register"),
			Input(Type("text"), Name("name"), Required(), Placeholder("Name")),
			Input(Type("email"), Name("email"), Required(), Placeholder("Email")),
			Input(Type("password"), Name("password"), Required(), Placeholder("Password (8+ characters)")),
			Button(Type("submit"), g.Text("Register")),
		),
	)
}

func adminPage(props LayoutProps, d *ports.Dashboard, mine *domain.ArticlePage) g.Node {
	rows := make([]g.Node, 0, len(mine.Data))
	for _, a := range mine.Data {
		status := "draft"
		if a.Published {
			status = "published"
		}
		rows = append(rows, Tr(
			Td(A(Href("/blog/"+a.ID), g.Text(a.Title))),
			Td(g.Text(status)),
			Td(g.Text(strconv.FormatInt(a.Views, 10))),
			Td(g.Text(strconv.FormatInt(a.Likes, 10))),
			Td(A(Href("/admin/articles/"+a.ID), g.Text("Edit"))),
		))
	}

	top := make([]g.Node, 0, len(d.MostViewedArticles)+len(d.MostViewedProjects))
	for _, a := range d.MostViewedArticles {
		top = append(top, Li(g.Textf("%s (%d views)", a.Title, a.Views)))
	}
	for _, p := range d.MostViewedProjects {
		top = append(top, Li(g.Textf("Project: %s (%d views)", p.Title, p.Views)))
	}

	s := d.Stats
	return layout(props,
		H1(g.Text("Dashboard")),
		Ul(Class("stats"),
			Li(g.Textf("Articles: %d", s.Articles)),
			Li(g.Textf("Projects: %d", s.Projects)),
			Li(g.Textf("Comments: %d", s.Comments)),
			Li(A(Href("/admin/visitors"), g.Textf("Visitors: %d", s.Visitors))),
			Li(g.Textf("Views: %d", s.TotalViews)),
			Li(g.Textf("Likes: %d", s.TotalLikes)),
		),
		H2(g.Text("Most viewed")),
		Ul(g.Group(top)),
		H2(g.Text("My articles")),
		Table(
			THead(Tr(Th(g.Text("Title")), Th(g.Text("Status")), Th(g.Text("Views")), Th(g.Text("Likes")), Th())),
			TBody(g.Group(rows)),
		),
	)
}

func editArticlePage(props LayoutProps, f articleForm, errMsg string) g.Node {
	return layout(props,
		H1(g.Text("Edit article")),
		g.If(errMsg != "", P(Class("error"), g.Text(errMsg))),
		form(Method("post"), Action("/admin/articles/"+f.ID),
			label("Title", Input(Type("text"), Name("title"), Value(f.Title), Required())),
			label("Description", Input(Type("text"), Name("description"), Value(f.Description), Required())),
			label("Content", Textarea(Name("content"), g.Attr("rows", "16"), Required(), g.Text(f.Content))),
			label("Image URL", Input(Type("url"), Name("image"), Value(f.Image))),
			label("Tags, comma separated", Input(Type("text"), Name("tags"), Value(f.Tags))),
			label("Published", Input(Type("checkbox"), Name("published"), Value("on"), g.If(f.Published, Checked()))),
			Button(Type("submit"), g.Text("Save")),
		),
		P(A(Href("/admin"), g.Text("Back to dashboard"))),
	)
}

func visitorsPage(props LayoutProps, visitors []domain.Visitor) g.Node {
	rows := make([]g.Node, 0, len(visitors))
	for _, v := range visitors {
		rows = append(rows, Tr(
			Td(g.Text(v.Email)),
			Td(g.Text(v.CreatedAt.Format("2 Jan 2006 15:04"))),
		))
	}
	return layout(props,
		H1(g.Textf("Visitors (%d)", len(visitors))),
		Table(
			THead(Tr(Th(g.Text("Email")), Th(g.Text("Since")))),
			TBody(g.Group(rows)),
		),
	)
}

func errorPage(props LayoutProps, status int, msg string) g.Node {
	return layout(props,
		H1(g.Text(strconv.Itoa(status))),
		P(g.Text(msg)),
		P(A(Href("/"), g.Text("Back home"))),
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func form(children ...g.Node) g.Node {
	return g.El("form", children...)
}

func label(text string, control g.Node) g.Node {
	return g.El("label", g.Text(text), control)
}
