// Package services lists a YouTube channel's uploads for the catalog sync engine.
//
// # Page Fetcher
//
// [PageFetcher] is the two-call contract the sync engine consumes: resolve the channel's uploads
// playlist once, then fetch pages of up to [PageSize] items by continuation cursor.
// [ChannelUploads] turns any PageFetcher into a lazy, finite [iter.Seq2] of [CatalogItem] values.
//
// # YouTube Implementation
//
// [YouTubeService] implements PageFetcher on google.golang.org/api/youtube/v3 with an API key.
// Requests are paced by a token bucket from golang.org/x/time/rate.
//
// Items are extracted strictly: an item missing its snippet, resource id, video id or title fails
// the page with [shared.ErrRemoteProtocol]. Thumbnails prefer the "high" variant, then "default".
//
// # Error Handling
//
// Remote failures are classified so callers can map them to distinct statuses:
//   - [shared.ErrQuotaExceeded] : quota or rate rejection (reason quotaExceeded, HTTP 429)
//   - [shared.ErrInvalidCredentials] : API key rejected
//   - [shared.ErrChannelNotFound] : no such channel or uploads playlist
//   - [RemoteError] : any other remote failure, carrying the raw message; matches [shared.ErrAPIRequest]
//   - [shared.ErrServiceUnavailable] : transport failure before a response was received
package services
