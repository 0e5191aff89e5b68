// Package contracts holds recorded upstream payloads and a fake upstream
// server that replays them.
//
// The payloads follow the shapes the real services return: the WordPress
// wp/v2 posts and categories endpoints with _embed, and the Scroll newsletter
// page carrying its state in window.__INITIAL_PINIA_STATE__.
package contracts

// WordPressPosts is a /posts?_embed response with two posts. The first has
// an author, categories, a tag and featured media; the second has none of
// those and no inline image.
const WordPressPosts = `[
  {
    "id": 101,
    "date": "2024-03-15T10:30:00",
    "link": "https://thewire.in/politics/budget-session",
    "guid": {"rendered": "https://thewire.in/?p=101"},
    "title": {"rendered": "Budget &#8216;Session&#8217; &amp; After"},
    "excerpt": {"rendered": "<p>What the budget means &amp; why.</p>\n"},
    "content": {"rendered": "<p>Parliament met.</p><script>track()</script><img data-src=\"lazy.jpg\" src=\"https://cdn.thewire.in/inline.jpg\" loading=\"lazy\">"},
    "_embedded": {
      "author": [{"id": 7, "name": "Jane Doe"}],
      "wp:term": [
        [
          {"id": 1, "name": "Politics", "slug": "politics", "taxonomy": "category"},
          {"id": 2, "name": "Law &amp; Justice", "slug": "law", "taxonomy": "category"}
        ],
        [
          {"id": 90, "name": "budget", "slug": "budget", "taxonomy": "post_tag"}
        ]
      ],
      "wp:featuredmedia": [
        {
          "source_url": "https://cdn.thewire.in/hero.jpg",
          "mime_type": "image/jpeg",
          "alt_text": "Parliament",
          "caption": {"rendered": "<p>Parliament House</p>\n"}
        }
      ]
    }
  },
  {
    "id": 102,
    "date": "2024-03-14T09:00:00",
    "link": "https://thewire.in/science/monsoon",
    "guid": {"rendered": "https://thewire.in/?p=102"},
    "title": {"rendered": "Monsoon arrives early"},
    "excerpt": {"rendered": "<p>Rain.</p>"},
    "content": {"rendered": "<p>It rained.</p>"},
    "_embedded": {
      "author": [],
      "wp:term": [
        [{"id": 3, "name": "Science", "slug": "science", "taxonomy": "category"}]
      ]
    }
  }
]`

// WordPressCategoryPosts is served for any ?categories= filter.
const WordPressCategoryPosts = `[
  {
    "id": 201,
    "date": "2024-03-13T18:45:00",
    "link": "https://thewire.in/category/story",
    "guid": {"rendered": "https://thewire.in/?p=201"},
    "title": {"rendered": "Category story"},
    "excerpt": {"rendered": "<p>In this section.</p>"},
    "content": {"rendered": "<p>Section body.</p>"},
    "_embedded": {"author": [{"id": 8, "name": "Ravi Kumar"}]}
  }
]`

// WordPressCategories is a /categories?orderby=count response. Politics,
// Law & Justice and Science hold more than ten posts.
const WordPressCategories = `[
  {"id": 1, "name": "Politics", "slug": "politics", "count": 120},
  {"id": 2, "name": "Law &amp; Justice", "slug": "law", "count": 45},
  {"id": 3, "name": "Science", "slug": "science", "count": 11},
  {"id": 5, "name": "Archive", "slug": "archive", "count": 10},
  {"id": 6, "name": "Uncategorized", "slug": "uncategorized", "count": 0}
]`

// ScrollPage is the newsletter landing page.
const ScrollPage = `<!DOCTYPE html>
<html>
<head>
  <script src="/app.js"></script>
  <script>window.dataLayer = [];</script>
</head>
<body>
  <div id="app"></div>
  <script>
    window.__INITIAL_PINIA_STATE__ = {
      "siteContent": {
        "mixedPosts": {
          "content": [
            {
              "id": 501,
              "title": "Morning Brief: Rain & Roads",
              "permalink": "https://scroll-newsletter.stck.me/post/501/morning-brief",
              "summary": "What you need to know",
              "published": "2024-03-15T05:00:00.000Z",
              "author": {"name": "Scroll Staff"},
              "meta": {"cover": {"src": {"image": "https://cdn.stck.me/cover.jpg"}}}
            },
            {
              "id": "abc",
              "title": "Evening Brief",
              "author": "not-an-object"
            }
          ]
        }
      }
    };
  </script>
</body>
</html>`
