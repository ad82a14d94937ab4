package site

// stylesheet is the hook file every page links as /assets/site.css. The
// build writes it on every run; themes replace it after the build.
const stylesheet = `:root {
  --bg: #faf8f2;
  --ink: #2b2b2b;
  --accent: #7a4a2b;
  --muted: #8a857b;
  --strong: #2e7d32;
  --weak: #b28704;
  --miss: #b3402a;
}

body {
  margin: 0;
  background: var(--bg);
  color: var(--ink);
  font: 16px/1.6 Georgia, serif;
}

.site-header {
  padding: 0.75rem 1.5rem;
  border-bottom: 1px solid var(--muted);
}

.site-header a {
  color: var(--accent);
  font-weight: bold;
  text-decoration: none;
}

.layout {
  display: flex;
  gap: 2rem;
  max-width: 72rem;
  margin: 0 auto;
  padding: 1rem 1.5rem;
}

.site-nav {
  flex: 0 0 16rem;
  font-size: 0.9rem;
}

.site-nav ul {
  list-style: none;
  padding-left: 1rem;
}

.site-nav .folder {
  color: var(--muted);
}

.page {
  flex: 1;
  min-width: 0;
}

.site-footer {
  padding: 0.75rem 1.5rem;
  color: var(--muted);
  font-size: 0.8rem;
}

a.internal-link {
  color: var(--accent);
}

.iron-vault-mechanics {
  border-left: 3px solid var(--accent);
  padding: 0.5rem 1rem;
  background: rgba(122, 74, 43, 0.06);
}

.iron-vault-mechanics dl {
  display: grid;
  grid-template-columns: max-content 1fr;
  gap: 0 0.75rem;
  margin: 0.25rem 0;
}

.iron-vault-mechanics dt {
  color: var(--muted);
}

details.move > summary {
  cursor: pointer;
  font-weight: bold;
}

.strong-hit { color: var(--strong); }
.weak-hit { color: var(--weak); }
.miss { color: var(--miss); }

.iv-mechanic {
  background: rgba(122, 74, 43, 0.1);
  border-radius: 3px;
  padding: 0 0.3em;
}

table.dataview {
  border-collapse: collapse;
  width: 100%;
}

table.dataview th,
table.dataview td {
  border: 1px solid var(--muted);
  padding: 0.25rem 0.5rem;
  text-align: left;
}

.error {
  color: var(--miss);
  font-style: italic;
}

.vault-summary {
  color: var(--muted);
}
`
