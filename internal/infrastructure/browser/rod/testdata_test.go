package rod

const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="testForm" action="/done" method="get">
		<input id="username" type="text" name="username" />
		<input id="password" type="password" name="password" />
		<select id="region" name="region"><option>EU</option><option>US</option></select>
		<button id="submit" type="submit">Sign in</button>
	</form>
</body>
</html>`

	RoleHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="hidden" style="display:none">Continue</button>
	<button id="disabled" disabled>Continue</button>
	<div role="button" id="divBtn" aria-label="Continue to password">Go</div>
	<div id="result"></div>
	<script>
		document.getElementById('divBtn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	ResultsHTML = `<!DOCTYPE html>
<html>
<body>
	<div class="g">First result</div>
	<div class="g">   </div>
	<div class="g">Second result</div>
</body>
</html>`

	HiddenFormHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="ghost" action="/ghost" style="display:none"><input name="a"></form>
	<form id="real" action="/real" method="get"><input name="b"></form>
</body>
</html>`
)
