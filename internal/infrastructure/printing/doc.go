// Package printing renders documents to PDF.
//
// HTML is produced from html/template sources by TemplateEngine and printed
// to PDF by ChromedpRenderer through a headless Chrome instance. Invoices are
// rendered by InvoicePDFRenderer, which joins the two.
package printing
