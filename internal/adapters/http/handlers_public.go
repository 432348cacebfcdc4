package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ascend/internal/application/listutil"
	"ascend/internal/application/orchestrators"
	"ascend/internal/application/projections"
	domainBlog "ascend/internal/domain/blog"
	domainEvent "ascend/internal/domain/event"
	"ascend/internal/domain/inquiry"
	"ascend/internal/domain/newsletter"
	domainPricing "ascend/internal/domain/pricing"
	"ascend/internal/domain/registration"
)

type homePage struct {
	Title string
	projections.GetHomePageResult
}

// handleHome renders the landing page.
func handleHome(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetHomePage(r.Context(), projections.GetHomePageQuery{Now: timeNow()}, projections.GetHomePageDeps{
		TrainingStore: stores.TrainingStore,
		PlanStore:     stores.PlanStore,
		BlogStore:     stores.BlogStore,
		EventStore:    stores.EventStore,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "home.html", homePage{Title: "Ascend", GetHomePageResult: result})
}

type programsPage struct {
	Title string
	projections.GetProgramsResult
}

// handlePrograms lists published trainings, optionally filtered by ?level=.
func handlePrograms(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetPrograms(r.Context(), projections.GetProgramsQuery{
		Level: r.URL.Query().Get("level"),
	}, projections.GetProgramsDeps{TrainingStore: stores.TrainingStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, result.Programs)
		return
	}
	renderTemplate(w, r, http.StatusOK, "programs.html", programsPage{Title: "Programs", GetProgramsResult: result})
}

type eventsPage struct {
	Title  string
	Events []domainEvent.Event
}

// handleEvents lists upcoming published events.
func handleEvents(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetEvents(r.Context(), projections.GetEventsQuery{Now: timeNow()}, projections.GetEventsDeps{
		EventStore: stores.EventStore,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, result.Events)
		return
	}
	renderTemplate(w, r, http.StatusOK, "events.html", eventsPage{Title: "Events", Events: result.Events})
}

type eventPage struct {
	Title      string
	Event      domainEvent.Event
	Fields     []string
	Values     map[string]string
	Registered string
	Error      string
}

// handleEvent shows one published event with its registration form.
func handleEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		renderError(w, r, http.StatusNotFound, "We couldn't find that event.")
		return
	}
	result, err := projections.QueryGetEvent(r.Context(), projections.GetEventQuery{ID: id}, projections.GetEventsDeps{
		EventStore: stores.EventStore,
	})
	if err != nil {
		storeError(w, r, err)
		return
	}
	registered := r.URL.Query().Get("registered")
	if registered != registration.StatusConfirmed && registered != registration.StatusPending {
		registered = ""
	}
	renderTemplate(w, r, http.StatusOK, "event.html", eventPage{
		Title:      result.Event.Title,
		Event:      result.Event,
		Fields:     result.Fields,
		Values:     map[string]string{},
		Registered: registered,
	})
}

// handleEventRegister records a registration and redirects back to the event.
func handleEventRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		renderError(w, r, http.StatusNotFound, "We couldn't find that event.")
		return
	}

	fields := map[string]string{}
	if wantsJSON(r) {
		if err := strictDecode(r, &fields); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			renderError(w, r, http.StatusBadRequest, "The form could not be read.")
			return
		}
		for key := range r.PostForm {
			fields[key] = r.PostForm.Get(key)
		}
	}

	reg, err := orchestrators.ExecuteRegisterForEvent(ctx, orchestrators.RegisterForEventInput{
		EventID: id,
		Fields:  fields,
	}, orchestrators.RegisterForEventDeps{
		EventStore:        stores.EventStore,
		RegistrationStore: stores.RegistrationStore,
		Notifier:          site.Notifier,
	})
	switch {
	case err == nil:
	case errors.Is(err, orchestrators.ErrEventNotOpen):
		renderError(w, r, http.StatusConflict, err.Error())
		return
	case isRegistrationInvalid(err):
		if wantsJSON(r) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		result, qerr := projections.QueryGetEvent(ctx, projections.GetEventQuery{ID: id}, projections.GetEventsDeps{EventStore: stores.EventStore})
		if qerr != nil {
			storeError(w, r, qerr)
			return
		}
		renderTemplate(w, r, http.StatusBadRequest, "event.html", eventPage{
			Title:  result.Event.Title,
			Event:  result.Event,
			Fields: result.Fields,
			Values: fields,
			Error:  "Please check the form: " + err.Error() + ".",
		})
		return
	default:
		storeError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, map[string]any{"id": reg.ID, "status": reg.Status})
		return
	}
	http.Redirect(w, r, "/events/"+strconv.FormatInt(id, 10)+"?registered="+reg.Status, http.StatusSeeOther)
}

func isRegistrationInvalid(err error) bool {
	for _, target := range []error{
		registration.ErrMissingField,
		registration.ErrInvalidEmail,
		registration.ErrFieldTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type pricingPage struct {
	Title string
	projections.GetPricingResult
}

// handlePricing lists the plans; ?plan= highlights one.
func handlePricing(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetPricing(r.Context(), projections.GetPricingQuery{
		SelectedPlan: r.URL.Query().Get("plan"),
	}, projections.GetPricingDeps{PlanStore: stores.PlanStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, result.Plans)
		return
	}
	renderTemplate(w, r, http.StatusOK, "pricing.html", pricingPage{Title: "Pricing", GetPricingResult: result})
}

type checkoutPage struct {
	Title     string
	Plan      domainPricing.Plan
	ScriptURL string
	PublicKey string
}

// handleCheckout loads the payment widget for ?plan=.
func handleCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("plan"), 10, 64)
	if err != nil || id <= 0 {
		http.Redirect(w, r, "/pricing", http.StatusSeeOther)
		return
	}
	result, err := projections.QueryGetCheckout(r.Context(), projections.GetCheckoutQuery{PlanID: id}, projections.GetPricingDeps{
		PlanStore: stores.PlanStore,
	})
	if err != nil {
		storeError(w, r, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "checkout.html", checkoutPage{
		Title:     "Checkout: " + result.Plan.Name,
		Plan:      result.Plan,
		ScriptURL: site.CheckoutScriptURL,
		PublicKey: site.CheckoutPublicKey,
	})
}

type blogPage struct {
	Title string
	projections.GetBlogListResult
}

// PageQuery builds the link to page, keeping the active filters.
func (p blogPage) PageQuery(page int) string {
	q := url.Values{}
	if p.Search != "" {
		q.Set("q", p.Search)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if p.PageInfo.PerPage != listutil.DefaultPerPage {
		q.Set("per_page", strconv.Itoa(p.PageInfo.PerPage))
	}
	if len(q) == 0 {
		return "/blog"
	}
	return "/blog?" + q.Encode()
}

// handleBlog lists published posts with search, category and pages.
func handleBlog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryGetBlogList(r.Context(), projections.GetBlogListQuery{
		Search:   strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Page:     listutil.ParsePageParams(q),
	}, projections.GetBlogDeps{BlogStore: stores.BlogStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, result.Posts)
		return
	}
	renderTemplate(w, r, http.StatusOK, "blog.html", blogPage{Title: "Blog", GetBlogListResult: result})
}

type blogPostPage struct {
	Title string
	Post  domainBlog.Post
}

// handleBlogPost renders one published post from Markdown.
func handleBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := projections.QueryGetBlogPost(r.Context(), projections.GetBlogPostQuery{
		Slug: r.PathValue("slug"),
	}, projections.GetBlogDeps{BlogStore: stores.BlogStore})
	if err != nil {
		storeError(w, r, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "blog_post.html", blogPostPage{Title: post.Title, Post: post})
}

type contactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type contactPage struct {
	Title string
	Form  contactForm
	Sent  bool
	Error string
}

// handleContactForm shows the empty contact form.
func handleContactForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "contact.html", contactPage{
		Title: "Contact",
		Form:  contactForm{Subject: r.URL.Query().Get("subject")},
	})
}

// handleContactSubmit relays the form. Only a 2xx from the relay counts as sent;
// any other outcome re-renders the form with its values so it can be resubmitted.
func handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	var form contactForm
	if wantsJSON(r) {
		if err := strictDecode(r, &form); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		form = contactForm{
			Name:    r.FormValue("name"),
			Email:   r.FormValue("email"),
			Phone:   r.FormValue("phone"),
			Subject: r.FormValue("subject"),
			Message: r.FormValue("message"),
		}
	}

	err := orchestrators.ExecuteSubmitContact(r.Context(), orchestrators.SubmitContactInput{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Subject: form.Subject,
		Message: form.Message,
	}, orchestrators.SubmitContactDeps{
		Relay:        site.Relay,
		InquiryStore: stores.InquiryStore,
		EmailSender:  site.EmailSender,
		NotifyTo:     site.NotifyTo,
		Notifier:     site.Notifier,
	})

	status := http.StatusOK
	msg := ""
	switch {
	case err == nil:
	case errors.Is(err, orchestrators.ErrRelayFailed):
		status, msg = http.StatusBadGateway, orchestrators.ErrRelayFailed.Error()
	case isInquiryInvalid(err):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		internalError(w, r, err)
		return
	}

	if wantsJSON(r) {
		if err != nil {
			writeJSONError(w, status, msg)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
		return
	}
	page := contactPage{Title: "Contact", Form: form, Sent: err == nil, Error: msg}
	if page.Sent {
		page.Form = contactForm{}
	}
	renderTemplate(w, r, status, "contact.html", page)
}

func isInquiryInvalid(err error) bool {
	for _, target := range []error{
		inquiry.ErrEmptyName,
		inquiry.ErrEmptyEmail,
		inquiry.ErrInvalidEmail,
		inquiry.ErrEmptySubject,
		inquiry.ErrEmptyMessage,
		inquiry.ErrMessageTooLong,
		inquiry.ErrFieldTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type newsletterPage struct {
	Title             string
	Email             string
	AlreadySubscribed bool
	Error             string
}

// handleNewsletter subscribes an address from the footer form or a JSON client.
func handleNewsletter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if wantsJSON(r) {
		if err := strictDecode(r, &body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		body.Email = r.FormValue("email")
	}

	result, err := orchestrators.ExecuteSubscribeNewsletter(r.Context(), orchestrators.SubscribeNewsletterInput{
		Email: body.Email,
	}, orchestrators.SubscribeNewsletterDeps{
		NewsletterStore: stores.NewsletterStore,
		EmailSender:     site.EmailSender,
	})
	if err != nil {
		if !errors.Is(err, newsletter.ErrEmptyEmail) && !errors.Is(err, newsletter.ErrInvalidEmail) && !errors.Is(err, newsletter.ErrEmailTooLong) {
			internalError(w, r, err)
			return
		}
		if wantsJSON(r) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		renderTemplate(w, r, http.StatusBadRequest, "newsletter.html", newsletterPage{
			Title: "Newsletter",
			Email: body.Email,
			Error: err.Error(),
		})
		return
	}

	if wantsJSON(r) {
		status := http.StatusCreated
		if result.AlreadySubscribed {
			status = http.StatusOK
		}
		writeJSON(w, status, map[string]any{
			"email":              result.Subscription.Email,
			"already_subscribed": result.AlreadySubscribed,
		})
		return
	}
	renderTemplate(w, r, http.StatusOK, "newsletter.html", newsletterPage{
		Title:             "Newsletter",
		Email:             result.Subscription.Email,
		AlreadySubscribed: result.AlreadySubscribed,
	})
}

// handleAdminRedirect sends /admin to the configured admin panel.
func handleAdminRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, site.AdminPanelURL, http.StatusFound)
}

// handleHealthz reports liveness.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleNotFound answers every unrouted path.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "We couldn't find that page.")
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
