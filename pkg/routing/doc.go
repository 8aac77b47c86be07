/*
Package routing builds the endpoint table the HTTP matcher serves from.

A DataSource projects two sources into one frozen list of Endpoints:

  - attribute-routed actions: each action descriptor that declares a template
    becomes an endpoint bound to that action;
  - dynamic routes: each configured template becomes an endpoint that resolves
    its action per request from the matched route values, through an
    action.Selector.

The matcher (see transport/httpx) stores the matched route values on the
request context with WithMatch and then calls Endpoint.Dispatch.

The table is built once, in New, and never changes. The DataSource also exposes
a change token aggregated from the action provider; when it fires the owner is
expected to build a new DataSource. The DataSource never rebuilds itself.
*/
package routing
