package server

const helpText = `Nash MCP User Guide

Nash exposes your machine to the connected assistant through a small set of
tools. Commands and code run with the server's permissions; there is no
sandbox.

COMMAND EXECUTION
  execute_command(command)      Run a shell command line, capture stdout,
                                stderr and the exit code.

PYTHON EXECUTION
  execute_python(code)          Run Python code in a subprocess; printed
                                output is returned. Check available
                                packages first with:
  list_installed_packages()     Interpreter version plus pip's package list.

WEB ACCESS
  fetch_webpage(url)            Fetch a page and return readable plain text
                                with markup stripped.

SECRETS
  nash_secrets()                List the names of configured credentials.
                                Values are never shown; they are injected
                                into every execution environment, so read
                                them in code with os.environ.get('NAME').

TASKS
  save_nash_task(name, description, script, script_type)
                                Save a reusable script. script_type is
                                "shell" or "python". Re-saving a name
                                overwrites it.
  list_nash_tasks()             Show all saved tasks.
  run_nash_task(name)           Retrieve a task's script and metadata for
                                review or adaptation.
  execute_task_script(name)     Execute a task's stored script.
  view_task_details(name)       Full record including the script body.
  delete_nash_task(name)        Permanently remove a task.

TYPICAL WORKFLOW
  1. list_nash_tasks() to see what already exists.
  2. run_nash_task(name) to review a task, or build a new script with
     execute_python / execute_command.
  3. save_nash_task(...) once the script works, so it can be reused.
  4. execute_task_script(name) on later sessions to run it directly.

Task names are case-sensitive. Every tool returns text; failures include
the error kind and message rather than a stack trace.`
