// Package route contains the persisted output of a route-generation run.
//
// A Group collects the routes one job produced; a Route is an ordered
// sequence of stops for a single vehicle. Stop numbers are 1-based and
// contiguous within a route, which lets drivers and exports rely on the
// numbering without re-sorting.
//
// Routes optionally carry a rendered map path (an encoded polyline) with an
// expiry; the hourly cleanup job drops expired paths so stale geometry is
// re-rendered on demand.
package route
