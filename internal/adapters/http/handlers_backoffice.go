package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"ascend/internal/adapters/http/middleware"
	"ascend/internal/adapters/remote"
	"ascend/internal/application/datatable"
	"ascend/internal/application/orchestrators"
	"ascend/internal/application/projections"
	domainAdmin "ascend/internal/domain/admin"
	"ascend/internal/domain/audit"
	"ascend/internal/domain/table"
	"ascend/internal/domain/upload"
)

// dashboardPath is the back-office landing page.
const dashboardPath = "/backoffice/"

type loginPage struct {
	Title  string
	Email  string
	Next   string
	Notice string
	Error  string
}

// handleLoginForm shows the sign-in form, or skips it for a signed-in admin.
func handleLoginForm(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if sess, ok := middleware.CurrentAdmin(r.Context()); ok && sess.IsAdmin() {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	page := loginPage{Title: "Sign in", Next: next}
	if r.URL.Query().Get("reset") == "done" {
		page.Notice = "Your password was updated. Sign in with the new one."
	}
	renderTemplate(w, r, http.StatusOK, "admin_login.html", page)
}

// handleLogin checks the credentials and starts a session.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	next := safeNext(r.FormValue("next"))

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    email,
		Password: r.FormValue("password"),
	}, orchestrators.LoginDeps{AdminStore: stores.AdminStore})
	if err != nil {
		if !errors.Is(err, orchestrators.ErrInvalidCredentials) {
			internalError(w, r, err)
			return
		}
		renderTemplate(w, r, http.StatusUnauthorized, "admin_login.html", loginPage{
			Title: "Sign in",
			Email: email,
			Next:  next,
			Error: "Invalid email or password.",
		})
		return
	}

	token, sess, err := sessions.Issue(result.Email, result.Name, result.Role)
	if err != nil {
		internalError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, token, site.SecureCookies)
	slog.Info("auth_event", "event", "session_issued", "email", sess.Email, "session_id", sess.TokenID)
	recordActivity(r, sess.Email, audit.ActionLogin, "")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// handleLogout revokes the session and clears the cookie.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.CurrentAdmin(r.Context()); ok {
		sessions.Revoke(sess)
		slog.Info("auth_event", "event", "logout", "email", sess.Email, "session_id", sess.TokenID)
		recordActivity(r, sess.Email, audit.ActionLogout, "")
	}
	middleware.ClearSessionCookie(w, site.SecureCookies)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// safeNext keeps post-login redirects inside the back-office.
func safeNext(next string) string {
	if !strings.HasPrefix(next, dashboardPath) || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return dashboardPath
	}
	return next
}

type resetPage struct {
	Title string
	Email string
	Error string
}

// handleResetForm shows the recovery-code reset form.
func handleResetForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "admin_reset.html", resetPage{Title: "Reset password"})
}

// handleReset sets a new password when the recovery code matches.
func handleReset(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	fail := func(msg string) {
		renderTemplate(w, r, http.StatusBadRequest, "admin_reset.html", resetPage{Title: "Reset password", Email: email, Error: msg})
	}
	if password != r.FormValue("confirm") {
		fail("The two passwords do not match.")
		return
	}

	err := orchestrators.ExecuteResetPassword(r.Context(), orchestrators.ResetPasswordInput{
		Email:       email,
		Code:        r.FormValue("code"),
		NewPassword: password,
	}, orchestrators.ResetPasswordDeps{AdminStore: stores.AdminStore})
	switch {
	case err == nil:
	case errors.Is(err, orchestrators.ErrInvalidRecoveryCode):
		fail("Invalid email or recovery code.")
		return
	case errors.Is(err, domainAdmin.ErrPasswordTooShort), errors.Is(err, domainAdmin.ErrEmptyPassword):
		fail(strings.ToUpper(err.Error()[:1]) + err.Error()[1:] + ".")
		return
	default:
		internalError(w, r, err)
		return
	}
	recordActivity(r, email, audit.ActionPasswordReset, "")
	http.Redirect(w, r, middleware.LoginPath+"?reset=done", http.StatusSeeOther)
}

type dashboardPage struct {
	Title string
	projections.DashboardResult
}

// handleDashboard shows per-table row counts and the latency snapshot.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{Now: timeNow()}, projections.GetDashboardDeps{
		Source:    stores.Backend,
		Registry:  stores.Registry,
		Collector: perfCollector,
		Activity:  stores.ActivityStore,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		counts := make(map[string]int, len(result.Tables))
		for _, tc := range result.Tables {
			if tc.Err == nil {
				counts[tc.Table] = tc.Rows
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tables": counts, "perf": result.Perf})
		return
	}
	renderTemplate(w, r, http.StatusOK, "admin_dashboard.html", dashboardPage{Title: "Dashboard", DashboardResult: result})
}

// tableNotices are the confirmations shown after a redirect back to a table.
var tableNotices = map[string]string{
	"created": "Row created.",
	"updated": "Row saved.",
	"deleted": "Row deleted.",
	"removed": "Selected rows deleted.",
}

type tablePage struct {
	Title  string
	Schema table.Schema
	View   datatable.View
	Notice string
	Error  string
}

// handleTable lists one table with the ?q= search applied.
func handleTable(w http.ResponseWriter, r *http.Request) {
	renderTablePage(w, r, http.StatusOK, r.URL.Query().Get("q"), nil, "")
}

// renderTablePage re-reads the table and renders it, optionally with an error banner
// and the rows the failed action targeted still selected.
func renderTablePage(w http.ResponseWriter, r *http.Request, status int, search string, selected []string, errMsg string) {
	name := r.PathValue("table")
	result, err := projections.QueryGetTableView(r.Context(), projections.GetTableViewQuery{
		Table:    name,
		Search:   strings.TrimSpace(search),
		Selected: selected,
	}, projections.GetTableViewDeps{
		Source:   stores.Backend,
		Registry: stores.Registry,
		Location: site.Location,
	})
	if err != nil {
		tableError(w, r, err)
		return
	}
	page := tablePage{
		Title:  result.Schema.Label,
		Schema: result.Schema,
		View:   result.View,
		Notice: tableNotices[r.URL.Query().Get("notice")],
		Error:  errMsg,
	}
	if result.View.Err != nil {
		if page.Error == "" {
			page.Error = "The table could not be loaded. Please try again."
		}
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	}
	renderTemplate(w, r, status, "admin_table.html", page)
}

// tableError maps unknown tables and missing rows to 404.
func tableError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, table.ErrUnknownTable) {
		renderError(w, r, http.StatusNotFound, "There is no such table.")
		return
	}
	storeError(w, r, err)
}

// handleDeleteRow deletes the row named by the id field once confirmed.
func handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	deleteRows(w, r, []string{strings.TrimSpace(r.FormValue("id"))}, "deleted")
}

// handleBulkDelete deletes every selected row in one request once confirmed.
func handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}
	deleteRows(w, r, r.PostForm["ids"], "removed")
}

func deleteRows(w http.ResponseWriter, r *http.Request, ids []string, notice string) {
	name := r.PathValue("table")
	sess, _ := middleware.CurrentAdmin(r.Context())
	ids = nonBlank(ids)

	_, err := orchestrators.ExecuteDeleteRows(r.Context(), orchestrators.DeleteRowsInput{
		Table:     name,
		IDs:       ids,
		Confirmed: r.FormValue("confirm") == "yes",
		Actor:     sess.Email,
	}, orchestrators.DeleteRowsDeps{
		Source:   stores.Backend,
		Registry: stores.Registry,
		Location: site.Location,
	})
	switch {
	case err == nil:
	case errors.Is(err, table.ErrUnknownTable):
		tableError(w, r, err)
		return
	case errors.Is(err, datatable.ErrNotConfirmed):
		renderTablePage(w, r, http.StatusBadRequest, r.FormValue("q"), ids, "Tick the confirmation box to delete.")
		return
	case errors.Is(err, datatable.ErrNothingSelected):
		renderTablePage(w, r, http.StatusBadRequest, r.FormValue("q"), nil, "Select at least one row first.")
		return
	default:
		slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		renderTablePage(w, r, http.StatusBadGateway, r.FormValue("q"), ids, "The rows could not be deleted. Please try again.")
		return
	}
	recordActivity(r, sess.Email, audit.ActionDelete, name, ids...)
	http.Redirect(w, r, tableURL(name, notice), http.StatusSeeOther)
}

// handleExport downloads the selected rows (or every row matching q) as CSV.
func handleExport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}
	name := r.PathValue("table")
	result, err := projections.QueryExportTable(r.Context(), projections.ExportTableQuery{
		Table:  name,
		Search: strings.TrimSpace(r.PostForm.Get("q")),
		IDs:    nonBlank(r.PostForm["ids"]),
	}, projections.ExportTableDeps{
		Source:   stores.Backend,
		Registry: stores.Registry,
		Now:      timeNow(),
	})
	if err != nil {
		tableError(w, r, err)
		return
	}
	sess, _ := middleware.CurrentAdmin(r.Context())
	slog.Info("admin_event", "event", "table_exported", "table", name, "bytes", len(result.Data), "actor", sess.Email)
	recordActivity(r, sess.Email, audit.ActionExport, name, nonBlank(r.PostForm["ids"])...)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

// rowField is one input of the add/edit form.
type rowField struct {
	table.Column
	Value string
}

type rowFormPage struct {
	Title  string
	Schema table.Schema
	ID     string
	Fields []rowField
	Error  string
}

func newRowFormPage(schema table.Schema, id string, values map[string]string, errMsg string) rowFormPage {
	title := "New " + strings.ToLower(schema.Label)
	if id != "" {
		title = "Edit " + strings.ToLower(schema.Label) + " #" + id
	}
	page := rowFormPage{Title: title, Schema: schema, ID: id, Error: errMsg}
	for _, col := range schema.Editable() {
		page.Fields = append(page.Fields, rowField{Column: col, Value: values[col.Name]})
	}
	return page
}

// handleNewRowForm shows an empty form generated from the table schema.
func handleNewRowForm(w http.ResponseWriter, r *http.Request) {
	schema, ok := stores.Registry.Lookup(r.PathValue("table"))
	if !ok {
		renderError(w, r, http.StatusNotFound, "There is no such table.")
		return
	}
	renderTemplate(w, r, http.StatusOK, "admin_row_form.html", newRowFormPage(schema, "", map[string]string{}, ""))
}

// handleEditRowForm shows the form filled with the stored row.
func handleEditRowForm(w http.ResponseWriter, r *http.Request) {
	schema, ok := stores.Registry.Lookup(r.PathValue("table"))
	if !ok {
		renderError(w, r, http.StatusNotFound, "There is no such table.")
		return
	}
	id := r.PathValue("id")
	rows, err := stores.Backend.Select(r.Context(), schema.Name, remote.Query{
		Filters: []remote.Filter{remote.Eq(table.IDColumn, remote.ParseID(id))},
		Limit:   1,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if len(rows) == 0 {
		renderError(w, r, http.StatusNotFound, "That row no longer exists.")
		return
	}
	values := orchestrators.FormValuesFromRow(schema, rows[0], site.Location)
	renderTemplate(w, r, http.StatusOK, "admin_row_form.html", newRowFormPage(schema, id, values, ""))
}

// handleSaveRow creates (no {id}) or updates a row from the generated form.
func handleSaveRow(w http.ResponseWriter, r *http.Request) {
	schema, ok := stores.Registry.Lookup(r.PathValue("table"))
	if !ok {
		renderError(w, r, http.StatusNotFound, "There is no such table.")
		return
	}
	if err := r.ParseForm(); err != nil {
		renderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}
	id := r.PathValue("id")
	values := make(map[string]string, len(schema.Columns))
	for _, col := range schema.Editable() {
		values[col.Name] = r.PostForm.Get(col.Name)
	}
	sess, _ := middleware.CurrentAdmin(r.Context())

	saved, err := orchestrators.ExecuteSaveRow(r.Context(), orchestrators.SaveRowInput{
		Table:  schema.Name,
		ID:     id,
		Values: values,
		Actor:  sess.Email,
	}, orchestrators.SaveRowDeps{
		Backend:  stores.Backend,
		Registry: stores.Registry,
		Location: site.Location,
		Now:      timeNow,
	})
	switch {
	case err == nil:
	case errors.Is(err, orchestrators.ErrInvalidRow):
		renderTemplate(w, r, http.StatusBadRequest, "admin_row_form.html", newRowFormPage(schema, id, values, err.Error()))
		return
	case errors.Is(err, remote.ErrNotFound):
		renderError(w, r, http.StatusNotFound, "That row no longer exists.")
		return
	default:
		slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		renderTemplate(w, r, http.StatusBadGateway, "admin_row_form.html",
			newRowFormPage(schema, id, values, "The row could not be saved. Please try again."))
		return
	}

	notice, action := "created", audit.ActionCreate
	if id != "" {
		notice, action = "updated", audit.ActionUpdate
	}
	recordActivity(r, sess.Email, action, schema.Name, datatable.RowID(saved))
	http.Redirect(w, r, tableURL(schema.Name, notice), http.StatusSeeOther)
}

// handleUpload stores one image from the multipart "file" field and answers {url, path}.
func handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "choose an image to upload")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, upload.MaxSize+1))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "the upload could not be read")
		return
	}
	sess, _ := middleware.CurrentAdmin(r.Context())

	obj, err := orchestrators.ExecuteUploadImage(r.Context(), orchestrators.UploadImageInput{
		Folder:   r.FormValue("folder"),
		Filename: header.Filename,
		Data:     data,
		Actor:    sess.Email,
	}, orchestrators.UploadImageDeps{UploadStore: stores.UploadStore})
	if err != nil {
		if isUploadInvalid(err) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeJSONError(w, http.StatusBadGateway, "the image could not be stored")
		return
	}
	recordActivity(r, sess.Email, audit.ActionUpload, obj.Path)
	writeJSON(w, http.StatusCreated, obj)
}

// handleDeleteUpload removes a stored object by path.
func handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := strictDecode(r, &body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		body.Path = r.FormValue("path")
	}
	sess, _ := middleware.CurrentAdmin(r.Context())

	err := orchestrators.ExecuteDeleteImage(r.Context(), orchestrators.DeleteImageInput{
		Path:  strings.TrimSpace(body.Path),
		Actor: sess.Email,
	}, orchestrators.UploadImageDeps{UploadStore: stores.UploadStore})
	if err != nil {
		if errors.Is(err, upload.ErrInvalidPath) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeJSONError(w, http.StatusBadGateway, "the image could not be removed")
		return
	}
	recordActivity(r, sess.Email, audit.ActionRemoveImage, body.Path)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "path": body.Path})
}

// recordActivity appends a back-office action to the activity trail.
// A trail failure is logged by the orchestrator and never fails the request.
// resource is empty for sign-in events; ids name the affected rows.
func recordActivity(r *http.Request, actor string, action audit.Action, resource string, ids ...string) {
	e := audit.NewEvent(actor, action, timeNow()).WithRemoteAddr(middleware.ClientIP(r))
	if resource != "" {
		e = e.WithResource(resource, ids...)
	}
	_ = orchestrators.ExecuteRecordActivity(r.Context(), e, orchestrators.RecordActivityDeps{ActivityStore: stores.ActivityStore})
}

func isUploadInvalid(err error) bool {
	for _, target := range []error{
		upload.ErrEmpty,
		upload.ErrTooLarge,
		upload.ErrNotImage,
		upload.ErrInvalidFolder,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func tableURL(name, notice string) string {
	u := "/backoffice/tables/" + url.PathEscape(name)
	if notice != "" {
		u += "?notice=" + url.QueryEscape(notice)
	}
	return u
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
