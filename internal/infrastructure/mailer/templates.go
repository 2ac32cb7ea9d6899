package mailer

const htmlTemplates = `
{{define "header"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.AppName}}</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.5;">
<h2>Hello {{.Name}}!</h2>
{{end}}

{{define "footer"}}{{if .PicksURL}}<p><a href="{{.PicksURL}}">Open your picks</a></p>{{end}}
<p style="color: #666; font-size: 0.9em;">You receive this email because you are a member of a {{.AppName}} league.</p>
</body>
</html>
{{end}}

{{define "reminder"}}{{template "header" .}}
<p>You still have games without a pick. Make your picks before kickoff!</p>
{{range .Leagues}}
<h3>{{.LeagueName}} &middot; {{.SportName}}</h3>
<table border="1" cellpadding="5" cellspacing="0">
<tr><th>Game</th><th>Kickoff</th><th>Venue</th><th>Line</th></tr>
{{range .Games}}<tr><td>{{.Matchup}}</td><td>{{.Kickoff}}</td><td>{{.Venue}}</td><td>{{.Line}}</td></tr>
{{end}}</table>
{{end}}
{{template "footer" .}}{{end}}

{{define "game_updates"}}{{template "header" .}}
<p>Some games you picked have changed since you made your pick. You may want to review them:</p>
<table border="1" cellpadding="5" cellspacing="0">
<tr><th>Game</th><th>Kickoff</th><th>Venue</th><th>Line</th><th>Your pick</th><th>League</th></tr>
{{range .Games}}<tr><td>{{.Matchup}}</td><td>{{.Kickoff}}</td><td>{{.Venue}}</td><td>{{.Line}}</td><td>{{.PickedTeam}}</td><td>{{.LeagueName}}</td></tr>
{{end}}</table>
{{template "footer" .}}{{end}}
`

const textTemplates = `
{{define "reminder"}}Hello {{.Name}}!

You still have games without a pick. Make your picks before kickoff!
{{range .Leagues}}
{{.LeagueName}} - {{.SportName}}
{{range .Games}}  * {{.Matchup}} | {{.Kickoff}} | {{.Venue}}{{if .Line}} | {{.Line}}{{end}}
{{end}}{{end}}
{{if .PicksURL}}Make your picks: {{.PicksURL}}
{{end}}{{end}}

{{define "game_updates"}}Hello {{.Name}}!

Some games you picked have changed since you made your pick:
{{range .Games}}  * {{.Matchup}} | {{.Kickoff}} | {{.Venue}}{{if .Line}} | {{.Line}}{{end}} | your pick: {{.PickedTeam}} ({{.LeagueName}})
{{end}}
{{if .PicksURL}}Review your picks: {{.PicksURL}}
{{end}}{{end}}
`
