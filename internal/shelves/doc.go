// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package shelves builds the ordered list of shelf definitions a feed pages
over.

For one media kind the order is:

 1. trending
 2. recently added on the caller's services (personalized only, and only
    when at least one provider has a change-feed catalog code)
 3. top rated
 4. moods: feel-good, edge of your seat, hidden gems, critically
    acclaimed, new releases
 5. decades: 2010s back to the 1980s
 6. original languages: Korean, Japanese, Spanish, French, Hindi
 7. runtime shelves (movies, personalized only)
 8. one shelf per upstream genre, priority genres first, then by name

A mixed selection interleaves the movie and series lists. Shelf ids are
stable ("movie:trending", "series:genre:18") and lists are cached per
provider set, country set, selection and guest flag. A list built without
genres is served but not cached, so the next request retries the genre
lookup.
*/
package shelves
